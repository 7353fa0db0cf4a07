package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/cache"
	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/repository"
	"ecommerce-api/internal/storage"
)

const productListCachePrefix = "products:list:"

type ProductHandler struct {
	products ProductStore
	uploads  Uploader
	cache    *cache.Cache
}

func NewProductHandler(products ProductStore, uploads Uploader, listCache *cache.Cache) *ProductHandler {
	return &ProductHandler{
		products: products,
		uploads:  uploads,
		cache:    listCache,
	}
}

// GetProducts lists the catalog with keyword/category/brand/price filters.
// Responses are cached briefly; any product write invalidates the listings.
// GET /api/product
func (h *ProductHandler) GetProducts(c *gin.Context) {
	minPrice, _ := strconv.ParseFloat(c.Query("minPrice"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice"), 64)
	filter := repository.ProductFilter{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.Query("sort"),
	}

	cacheKey := fmt.Sprintf("%sk:%s_cat:%s_b:%s_p:%v-%v_sort:%s",
		productListCachePrefix, filter.Keyword, filter.Category, filter.Brand,
		filter.MinPrice, filter.MaxPrice, filter.Sort)
	if cached, found := h.cache.GetValue(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := h.products.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"success":       true,
		"products":      products,
		"totalProducts": total,
	}
	h.cache.Set(cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// GetProduct returns a single product.
// GET /api/product/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	cacheKey := "product:" + id
	if cached, found := h.cache.GetValue(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"success": true, "product": product}
	h.cache.Set(cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// CreateProduct creates a product from a multipart form with image uploads.
// POST /api/product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, apperr.New(apperr.Validation, "Invalid multipart form"))
		return
	}

	files := form.File["images"]
	if err := storage.ValidateFiles(files); err != nil {
		respondError(c, err)
		return
	}

	name := c.PostForm("name")
	brand := c.PostForm("brand")
	category := c.PostForm("category")
	description := c.PostForm("description")
	if name == "" || brand == "" || category == "" || description == "" || len(files) == 0 {
		respondError(c, apperr.New(apperr.Validation, "Please provide all required fields"))
		return
	}

	images := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.uploads.Store(file)
		if err != nil {
			respondError(c, err)
			return
		}
		images = append(images, url)
	}

	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)
	originalPrice, _ := strconv.ParseFloat(c.PostForm("originalPrice"), 64)
	stockQuantity, _ := strconv.Atoi(c.PostForm("stockQuantity"))
	weight, _ := strconv.ParseFloat(c.PostForm("weight"), 64)

	product := &models.Product{
		Name:               name,
		Brand:              brand,
		Category:           category,
		SubCategory:        c.PostForm("subCategory"),
		ThirdLevelCategory: c.PostForm("thirdLevelCategory"),
		Description:        description,
		Price:              price,
		OriginalPrice:      originalPrice,
		StockQuantity:      stockQuantity,
		SKU:                c.PostForm("sku"),
		Weight:             weight,
		Dimensions:         c.PostForm("dimensions"),
		Tags:               splitTags(c.PostForm("tags")),
		Images:             images,
	}

	if err := h.products.Create(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	h.cache.DeleteByPrefix(productListCachePrefix)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct applies a partial update from a multipart form. New image
// uploads replace the existing image set.
// PUT /api/product/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, apperr.New(apperr.Validation, "Invalid multipart form"))
		return
	}

	update := bson.M{}
	for _, field := range []string{
		"name", "brand", "category", "subCategory", "thirdLevelCategory",
		"description", "sku", "dimensions",
	} {
		if value, ok := c.GetPostForm(field); ok && value != "" {
			update[field] = value
		}
	}
	for _, field := range []string{"price", "originalPrice", "weight"} {
		if value, ok := c.GetPostForm(field); ok {
			if parsed, err := strconv.ParseFloat(value, 64); err == nil {
				update[field] = parsed
			}
		}
	}
	if value, ok := c.GetPostForm("stockQuantity"); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			update["stockQuantity"] = parsed
		}
	}
	if value, ok := c.GetPostForm("tags"); ok {
		update["tags"] = splitTags(value)
	}

	if files := form.File["images"]; len(files) > 0 {
		if err := storage.ValidateFiles(files); err != nil {
			respondError(c, err)
			return
		}
		images := make([]string, 0, len(files))
		for _, file := range files {
			url, err := h.uploads.Store(file)
			if err != nil {
				respondError(c, err)
				return
			}
			images = append(images, url)
		}
		update["images"] = images
	}

	if len(update) == 0 {
		respondError(c, apperr.New(apperr.Validation, "No valid fields to update"))
		return
	}

	if err := h.products.Update(c.Request.Context(), id, update); err != nil {
		respondError(c, err)
		return
	}
	h.cache.Delete("product:" + id)
	h.cache.DeleteByPrefix(productListCachePrefix)

	product, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully!",
		"product": product,
	})
}

// DeleteProduct removes a product.
// DELETE /api/product/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.cache.Delete("product:" + id)
	h.cache.DeleteByPrefix(productListCachePrefix)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}

type reviewRequest struct {
	Rating  float64 `json:"rating" binding:"required,min=1,max=5"`
	Comment string  `json:"comment" binding:"required"`
}

// CreateReview appends a review by the current user and refreshes the
// product's average rating.
// POST /api/product/:id/review
func (h *ProductHandler) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Rating and comment are required"))
		return
	}

	user := middleware.CurrentUser(c)
	review := models.Review{
		User:    user.ID,
		Name:    user.Name,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.products.AddReview(c.Request.Context(), c.Param("id"), review); err != nil {
		respondError(c, err)
		return
	}
	h.cache.Delete("product:" + c.Param("id"))
	h.cache.DeleteByPrefix(productListCachePrefix)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Review added successfully"})
}

func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
