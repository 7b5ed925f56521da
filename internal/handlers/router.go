package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bazario-backend/internal/middleware"
	"bazario-backend/internal/models"
)

// Deps collects everything the router mounts.
type Deps struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Products      *ProductHandler
	Categories    *CategoryHandler
	SubCategories *SubCategoryHandler
	Brands        *BrandHandler
	Cart          *CartHandler
	Orders        *OrderHandler
	Coupons       *CouponHandler
	Rentals       *RentalHandler
	Stats         *StatsHandler

	Authenticator  middleware.Authenticator
	AllowedOrigins []string
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = deps.AllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := middleware.Authenticate(deps.Authenticator)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", deps.Auth.Signup)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/logout", deps.Auth.Logout)
		auth.PUT("/change-password", deps.Auth.ChangePassword)
	}

	products := v1.Group("/products")
	{
		products.GET("", deps.Products.List)
		products.GET("/:id", deps.Products.Get)

		admin := products.Group("", authed, adminOnly)
		admin.POST("", deps.Products.Create)
		admin.PUT("/:id", deps.Products.Update)
		admin.DELETE("/:id", deps.Products.Delete)
		admin.POST("/:id/image", deps.Products.UploadImage)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", deps.Categories.List)
		categories.GET("/:id", deps.Categories.Get)
		categories.GET("/:id/subcategories", deps.SubCategories.ListByCategory)

		admin := categories.Group("", authed, adminOnly)
		admin.POST("", deps.Categories.Create)
		admin.PUT("/:id", deps.Categories.Update)
		admin.DELETE("/:id", deps.Categories.Delete)
	}

	subcategories := v1.Group("/subcategories")
	{
		subcategories.GET("", deps.SubCategories.List)
		subcategories.GET("/:id", deps.SubCategories.Get)

		admin := subcategories.Group("", authed, adminOnly)
		admin.POST("", deps.SubCategories.Create)
		admin.PUT("/:id", deps.SubCategories.Update)
		admin.DELETE("/:id", deps.SubCategories.Delete)
	}

	brands := v1.Group("/brands")
	{
		brands.GET("", deps.Brands.List)
		brands.GET("/:id", deps.Brands.Get)

		admin := brands.Group("", authed, adminOnly)
		admin.POST("", deps.Brands.Create)
		admin.PUT("/:id", deps.Brands.Update)
		admin.DELETE("/:id", deps.Brands.Delete)
	}

	cart := v1.Group("/cart", authed)
	{
		cart.GET("", deps.Cart.Get)
		cart.POST("", deps.Cart.AddItem)
		cart.DELETE("", deps.Cart.Clear)
		cart.POST("/apply-coupon", deps.Cart.ApplyCoupon)
		cart.DELETE("/coupon", deps.Cart.RemoveCoupon)
		cart.PUT("/:productId", deps.Cart.UpdateQuantity)
		cart.DELETE("/:productId", deps.Cart.RemoveItem)
	}

	orders := v1.Group("/orders")
	{
		// The gateway calls this; it authenticates with its signature, not
		// a user token.
		orders.POST("/webhook", deps.Orders.Webhook)

		authedOrders := orders.Group("", authed)
		authedOrders.GET("", deps.Orders.ListMine)
		authedOrders.POST("/:cartId", deps.Orders.PlaceCashOrder)
		authedOrders.POST("/checkout-session/:cartId", deps.Orders.CreateCheckoutSession)
		authedOrders.GET("/verify/:sessionId", deps.Orders.VerifyPayment)
		authedOrders.GET("/:id", deps.Orders.Get)

		admin := orders.Group("/admin", authed, adminOnly)
		admin.GET("", deps.Orders.ListAll)
		admin.PUT("/:id/pay", deps.Orders.MarkPaid)
		admin.PUT("/:id/deliver", deps.Orders.MarkDelivered)
	}

	coupons := v1.Group("/coupons", authed, adminOnly)
	{
		coupons.GET("", deps.Coupons.List)
		coupons.POST("", deps.Coupons.Create)
		coupons.PUT("/:id", deps.Coupons.Update)
		coupons.DELETE("/:id", deps.Coupons.Delete)
	}

	users := v1.Group("/users", authed)
	{
		users.GET("/profile", deps.Users.Profile)
		users.PUT("/profile", deps.Users.UpdateProfile)
		users.GET("/wishlist", deps.Users.Wishlist)
		users.POST("/wishlist", deps.Users.AddToWishlist)
		users.DELETE("/wishlist/:productId", deps.Users.RemoveFromWishlist)
		users.POST("/addresses", deps.Users.AddAddress)
		users.DELETE("/addresses/:alias", deps.Users.RemoveAddress)

		admin := users.Group("", adminOnly)
		admin.GET("", deps.Users.List)
		admin.PUT("/:id/block", deps.Users.SetBlocked)
		admin.DELETE("/:id", deps.Users.Delete)
	}

	rentals := v1.Group("/rentals", authed)
	{
		rentals.POST("", deps.Rentals.Create)
		rentals.GET("/my-requests", deps.Rentals.ListMine)
		rentals.GET("/:id", deps.Rentals.Get)
		rentals.PUT("/:id/cancel", deps.Rentals.Cancel)

		admin := rentals.Group("/admin", adminOnly)
		admin.GET("", deps.Rentals.ListAll)
		admin.PUT("/:id/approve", deps.Rentals.Approve)
		admin.PUT("/:id/reject", deps.Rentals.Reject)
		admin.PUT("/:id/activate", deps.Rentals.Activate)
		admin.PUT("/:id/complete", deps.Rentals.Complete)
	}

	v1.GET("/admin/stats", authed, adminOnly, deps.Stats.Get)

	return r
}
