package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/middleware"
)

type UserHandler struct {
	users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

type cartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// AddToCart merges the quantity into an existing cart entry or adds a new one.
// POST /api/user/cart
func (h *UserHandler) AddToCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Product ID and quantity are required"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondError(c, apperr.New(apperr.Validation, "Invalid product ID"))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.users.AddToCart(c.Request.Context(), user.ID, productID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.users.FindByID(c.Request.Context(), user.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Item added to cart",
		"cart":    updated.Cart,
	})
}

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// ToggleWishlist adds the product to the wishlist, or removes it when already
// present.
// POST /api/user/wishlist
func (h *UserHandler) ToggleWishlist(c *gin.Context) {
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Product ID is required"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondError(c, apperr.New(apperr.Validation, "Invalid product ID"))
		return
	}

	user := middleware.CurrentUser(c)
	added, err := h.users.ToggleWishlist(c.Request.Context(), user.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.users.FindByID(c.Request.Context(), user.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	message := "Item removed from wishlist"
	if added {
		status = http.StatusCreated
		message = "Item added to wishlist"
	}
	c.JSON(status, gin.H{
		"success":  true,
		"message":  message,
		"wishlist": updated.Wishlist,
	})
}

// GetUsers lists all users. Password hashes are excluded by the model's JSON
// tags.
// GET /api/user
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.users.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

// restrictedUserFields must never be writable through the generic update
// endpoint; in particular role, so it cannot be escalated here.
var restrictedUserFields = []string{"password", "role", "_id", "id", "orders", "created_at", "updated_at"}

// UpdateUser applies a generic partial update with restricted fields stripped.
// PUT /api/user/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	for _, field := range restrictedUserFields {
		delete(body, field)
	}
	if len(body) == 0 {
		respondError(c, apperr.New(apperr.Validation, "No valid fields provided for update"))
		return
	}

	update := bson.M{}
	for key, value := range body {
		update[key] = value
	}

	id := c.Param("id")
	if err := h.users.Update(c.Request.Context(), id, update); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    gin.H{"user": user},
	})
}

// DeleteUser removes a user account. Admins cannot delete themselves or other
// admins.
// DELETE /api/user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	actor := middleware.CurrentUser(c)
	if actor.ID.Hex() == id {
		respondError(c, apperr.New(apperr.Validation, "Cannot delete your own account"))
		return
	}

	target, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if target.IsAdmin() {
		respondError(c, apperr.New(apperr.Forbidden, "Insufficient permissions to delete admin user"))
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
		"data":    gin.H{"deletedUserId": id},
	})
}
