package routes

import (
	"github.com/gin-gonic/gin"

	"ecommerce-api/internal/handlers"
	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/session"
)

// Deps carries everything the route table needs.
type Deps struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
	Category *handlers.CategoryHandler
	Banners  *handlers.BannerHandler
	Admin    *handlers.AdminHandler

	Sessions  *session.Manager
	UserStore middleware.UserStore
	UploadDir string
}

func RegisterRoutes(router *gin.Engine, deps Deps) {
	requireAuth := middleware.RequireAuth(deps.Sessions, deps.UserStore)
	requireAdmin := middleware.RequireAdmin(deps.Sessions, deps.UserStore)

	router.Static("/uploads", deps.UploadDir)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/sign-up", deps.Auth.SignUp)
		auth.POST("/sign-in", deps.Auth.SignIn)
		auth.POST("/admin-login", deps.Auth.AdminLogin)
		auth.POST("/admin-signup", deps.Auth.AdminSignUp)
		auth.POST("/log-out", deps.Auth.Logout)
	}

	user := api.Group("/user")
	{
		user.POST("/cart", requireAuth, deps.Users.AddToCart)
		user.POST("/wishlist", requireAuth, deps.Users.ToggleWishlist)
		user.GET("", requireAdmin, deps.Users.GetUsers)
		user.PUT("/:id", requireAdmin, deps.Users.UpdateUser)
		user.DELETE("/:id", requireAdmin, deps.Users.DeleteUser)
	}

	product := api.Group("/product")
	{
		product.GET("", deps.Products.GetProducts)
		product.GET("/:id", deps.Products.GetProduct)
		product.POST("", requireAdmin, deps.Products.CreateProduct)
		product.PUT("/:id", requireAdmin, deps.Products.UpdateProduct)
		product.DELETE("/:id", requireAdmin, deps.Products.DeleteProduct)
		product.POST("/:id/review", requireAuth, deps.Products.CreateReview)
	}

	category := api.Group("/category")
	{
		category.GET("", deps.Category.GetCategories)
		category.GET("/:id", deps.Category.GetCategory)
		category.POST("", requireAdmin, deps.Category.CreateCategory)
		category.PUT("/:id", requireAdmin, deps.Category.UpdateCategory)
		category.DELETE("/:id", requireAdmin, deps.Category.DeleteCategory)
	}

	banner := api.Group("/banner")
	{
		banner.GET("", deps.Banners.GetBanners)
		banner.GET("/:id", deps.Banners.GetBanner)
		banner.POST("", requireAdmin, deps.Banners.CreateBanner)
		banner.PUT("/:id", requireAdmin, deps.Banners.UpdateBanner)
		banner.DELETE("/:id", requireAdmin, deps.Banners.DeleteBanner)
	}

	order := api.Group("/order")
	{
		order.POST("/create-order", requireAuth, deps.Orders.CreateOrder)
		order.GET("", requireAdmin, deps.Orders.GetOrders)
		order.GET("/:id", requireAdmin, deps.Orders.GetOrder)
		order.PUT("/:id/status", requireAdmin, deps.Orders.UpdateOrderStatus)
		order.DELETE("/:id", requireAdmin, deps.Orders.DeleteOrder)
	}

	admin := api.Group("/admin", requireAdmin)
	{
		admin.GET("/stats", deps.Admin.GetStats)
		admin.GET("/chart", deps.Admin.GetChartData)
	}
}
