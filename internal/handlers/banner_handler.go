package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/models"
)

type BannerHandler struct {
	banners BannerStore
	uploads Uploader
}

func NewBannerHandler(banners BannerStore, uploads Uploader) *BannerHandler {
	return &BannerHandler{banners: banners, uploads: uploads}
}

// CreateBanner creates a banner from a multipart form. The image is required;
// the title falls back to the uploaded filename.
// POST /api/banner
func (h *BannerHandler) CreateBanner(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperr.New(apperr.Validation, "Image is required"))
		return
	}

	url, err := h.uploads.Store(file)
	if err != nil {
		respondError(c, err)
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
		if title == "" {
			title = "Untitled"
		}
	}

	banner := &models.Banner{
		Title:           title,
		Subtitle:        c.PostForm("subtitle"),
		Description:     c.PostForm("description"),
		BackgroundColor: c.PostForm("backgroundColor"),
		Status:          c.PostForm("status"),
		Image:           url,
	}
	if err := h.banners.Create(c.Request.Context(), banner); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Banner created successfully",
		"banner":  banner,
	})
}

// GetBanners lists all banners.
// GET /api/banner
func (h *BannerHandler) GetBanners(c *gin.Context) {
	banners, err := h.banners.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "banners": banners})
}

// GetBanner returns a single banner.
// GET /api/banner/:id
func (h *BannerHandler) GetBanner(c *gin.Context) {
	banner, err := h.banners.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "banner": banner})
}

// UpdateBanner applies a partial update from a multipart form.
// PUT /api/banner/:id
func (h *BannerHandler) UpdateBanner(c *gin.Context) {
	update := bson.M{}
	for _, field := range []string{"title", "subtitle", "description", "backgroundColor", "status"} {
		if value, ok := c.GetPostForm(field); ok && value != "" {
			update[field] = value
		}
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
	if err := h.banners.Update(c.Request.Context(), id, update); err != nil {
		respondError(c, err)
		return
	}

	banner, err := h.banners.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Banner updated successfully",
		"banner":  banner,
	})
}

// DeleteBanner removes a banner.
// DELETE /api/banner/:id
func (h *BannerHandler) DeleteBanner(c *gin.Context) {
	if err := h.banners.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Banner deleted successfully"})
}
