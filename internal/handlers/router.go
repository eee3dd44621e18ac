package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *AuthMiddleware
	Users   *AuthHandler
	Catalog *CatalogHandler
	Orders  *OrderHandler
	Admin   *AdminHandler
	// Health reports dependency status; nil means always healthy.
	Health func(c *gin.Context) error
}

// RegisterRoutes mounts the storefront API on router.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", func(c *gin.Context) {
		if h.Health != nil {
			if err := h.Health(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/products", h.Catalog.ListProducts)
		api.GET("/products/:id", h.Catalog.GetProduct)
		api.GET("/categories", h.Catalog.ListCategories)
		api.GET("/units", h.Catalog.ListUnits)

		api.POST("/orders", h.Auth.OptionalAuth(), h.Orders.CreateOrder)
		api.GET("/orders/:id", h.Orders.GetOrder)
		api.GET("/orders/reference/:reference", h.Orders.GetOrderByReference)
		api.POST("/orders/reference/:reference/payment-started", h.Orders.PaymentStarted)
		api.GET("/orders", h.Auth.RequireAuth(), h.Orders.MyOrders)

		auth := api.Group("/auth")
		auth.POST("/register", h.Users.Register)
		auth.POST("/login", h.Users.Login)
		auth.POST("/logout", h.Auth.RequireAuth(), h.Users.Logout)
		auth.GET("/me", h.Auth.RequireAuth(), h.Users.Me)
	}

	admin := api.Group("/admin", h.Auth.RequireAuth(), h.Auth.RequireAdmin())
	{
		admin.GET("/dashboard", h.Admin.Dashboard)

		admin.GET("/orders", h.Admin.ListOrders)
		admin.GET("/orders/pending", h.Admin.ListPendingOrders)
		admin.GET("/orders/:id", h.Admin.GetOrder)
		admin.PUT("/orders/:id/status", h.Admin.UpdateOrderStatus)

		admin.GET("/products", h.Admin.ListProducts)
		admin.POST("/products", h.Admin.CreateProduct)
		admin.PUT("/products/:id", h.Admin.UpdateProduct)
		admin.DELETE("/products/:id", h.Admin.DeleteProduct)
		admin.PUT("/products/:id/status", h.Admin.SetProductStatus)
		admin.POST("/products/:id/adjust", h.Admin.AdjustStock)
		admin.GET("/products/:id/ledger", h.Admin.ProductLedger)

		admin.GET("/inventory/summary", h.Admin.InventorySummary)
		admin.GET("/inventory/low-stock", h.Admin.LowStock)
		admin.GET("/inventory/movements", h.Admin.RecentMovements)

		admin.POST("/categories", h.Admin.CreateCategory)
		admin.PUT("/categories/:id", h.Admin.UpdateCategory)
		admin.DELETE("/categories/:id", h.Admin.DeleteCategory)
		admin.POST("/units", h.Admin.CreateUnit)
		admin.PUT("/units/:id", h.Admin.UpdateUnit)
		admin.DELETE("/units/:id", h.Admin.DeleteUnit)
	}
}
