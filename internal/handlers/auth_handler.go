package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/session"
)

type AuthHandler struct {
	users      UserStore
	sessions   *session.Manager
	cookieTTL  int
	secureOnly bool
}

func NewAuthHandler(users UserStore, sessions *session.Manager, cookieTTLSeconds int, secureOnly bool) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		cookieTTL:  cookieTTLSeconds,
		secureOnly: secureOnly,
	}
}

type signUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SignUp registers a new customer account.
// POST /api/auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Please provide all required fields"))
		return
	}
	h.register(c, req, models.RoleCustomer, "User registered successfully! Please log in.")
}

// AdminSignUp registers an admin account.
// POST /api/auth/admin-signup
func (h *AuthHandler) AdminSignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Please provide all required fields"))
		return
	}
	h.register(c, req, models.RoleAdmin, "Admin user registered successfully! Please log in.")
}

func (h *AuthHandler) register(c *gin.Context, req signUpRequest, role, message string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "Failed to hash password", err))
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message})
}

// SignIn authenticates a user and establishes a session.
// POST /api/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	user, ok := h.checkCredentials(c)
	if !ok {
		return
	}
	h.establishSession(c, user, "User logged in successfully")
}

// AdminLogin authenticates like SignIn, then additionally requires the admin
// role. Credentials are verified first so the two failures stay distinct
// kinds: bad credentials → 401, valid non-admin → 403.
// POST /api/auth/admin-login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	user, ok := h.checkCredentials(c)
	if !ok {
		return
	}
	if !user.IsAdmin() {
		respondError(c, apperr.New(apperr.Forbidden, "Not authorized as admin"))
		return
	}
	h.establishSession(c, user, "Admin logged in successfully")
}

// checkCredentials verifies email and password. Lookup failure and password
// mismatch produce the same response, so callers cannot probe which emails
// exist.
func (h *AuthHandler) checkCredentials(c *gin.Context) (*models.User, bool) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Please provide email and password"))
		return nil, false
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			respondError(c, apperr.New(apperr.InvalidCredentials, "Invalid credentials"))
		} else {
			respondError(c, err)
		}
		return nil, false
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(c, apperr.New(apperr.InvalidCredentials, "Invalid credentials"))
		return nil, false
	}
	return user, true
}

func (h *AuthHandler) establishSession(c *gin.Context, user *models.User, message string) {
	sessionID, err := h.sessions.Create(c.Request.Context(),
		user.ID.Hex(), user.Name, user.Email, user.Role)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "Failed to create session", err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, sessionID, h.cookieTTL, "/", "", h.secureOnly, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"user": userResponse{
			ID:    user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Logout destroys the session. Logging out with no live session is fine.
// POST /api/auth/log-out
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(session.CookieName)
	if err == nil && sessionID != "" {
		if err := h.sessions.Destroy(c.Request.Context(), sessionID); err != nil &&
			!errors.Is(err, session.ErrNotFound) {
			respondError(c, apperr.Wrap(apperr.Internal, "Something went wrong during logging out!", err))
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureOnly, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User logged out successfully."})
}
