package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/models"
)

type CategoryHandler struct {
	categories CategoryStore
	uploads    Uploader
}

func NewCategoryHandler(categories CategoryStore, uploads Uploader) *CategoryHandler {
	return &CategoryHandler{categories: categories, uploads: uploads}
}

// CreateCategory creates a category from a multipart form with an optional
// image.
// POST /api/category
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		respondError(c, apperr.New(apperr.Validation, "Category name is required"))
		return
	}

	category := &models.Category{Name: name}
	if file, err := c.FormFile("image"); err == nil {
		url, err := h.uploads.Store(file)
		if err != nil {
			respondError(c, err)
			return
		}
		category.Image = url
	}

	if err := h.categories.Create(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Category created successfully",
		"category": category,
	})
}

// GetCategories lists all categories.
// GET /api/category
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categories.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

// GetCategory returns a single category.
// GET /api/category/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categories.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

// UpdateCategory updates the name and/or image.
// PUT /api/category/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	update := bson.M{}
	if name := c.PostForm("name"); name != "" {
		update["name"] = name
	}
	if file, err := c.FormFile("image"); err == nil {
		url, err := h.uploads.Store(file)
		if err != nil {
			respondError(c, err)
			return
		}
		update["image"] = url
	}
	if len(update) == 0 {
		respondError(c, apperr.New(apperr.Validation, "No valid fields to update"))
		return
	}

	id := c.Param("id")
	if err := h.categories.Update(c.Request.Context(), id, update); err != nil {
		respondError(c, err)
		return
	}

	category, err := h.categories.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Category updated",
		"category": category,
	})
}

// DeleteCategory removes a category.
// DELETE /api/category/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}
