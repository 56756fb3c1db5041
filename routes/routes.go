package routes

import (
	"net/http"

	"trendora-backend/events"
	"trendora-backend/handlers"
	"trendora-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes wires every handler onto the router. Three tiers: public
// storefront reads, cookie-authenticated user routes, and the admin console
// behind the role check.
func SetupRoutes(r *gin.Engine, db *gorm.DB, publisher *events.Publisher) {
	feed := handlers.NewOrderFeed()

	authHandler := &handlers.AuthHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	cartHandler := &handlers.CartHandler{DB: db}
	watchlistHandler := &handlers.WatchlistHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db, Publisher: publisher, Feed: feed}
	settingsHandler := &handlers.SettingsHandler{DB: db}
	adminUserHandler := &handlers.AdminUserHandler{DB: db}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)

		api.GET("/settings", settingsHandler.GetSetting)
	}

	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/cart", cartHandler.GetCart)
		protected.POST("/cart", cartHandler.AddToCart)
		protected.PUT("/cart", cartHandler.UpdateCartItem)
		protected.DELETE("/cart", cartHandler.RemoveFromCart)

		protected.GET("/watchlist", watchlistHandler.GetWatchlist)
		protected.POST("/watchlist", watchlistHandler.AddToWatchlist)
		protected.DELETE("/watchlist", watchlistHandler.RemoveFromWatchlist)

		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders", orderHandler.GetOrders)
		protected.PATCH("/orders/:id", orderHandler.CancelOrder)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.GET("/products/export", productHandler.ExportProducts)

		admin.GET("/orders", orderHandler.GetAllOrders)
		admin.PATCH("/orders/:id", orderHandler.UpdateOrderStatus)
		admin.GET("/orders/feed", feed.Handle)

		admin.GET("/settings", settingsHandler.GetSetting)
		admin.POST("/settings", settingsHandler.SetSetting)

		admin.GET("/users", adminUserHandler.ListAdmins)
		admin.POST("/users", adminUserHandler.CreateAdmin)
		admin.DELETE("/users/:id", adminUserHandler.DeleteAdmin)
	}
}
