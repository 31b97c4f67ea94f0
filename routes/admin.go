package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminController "github.com/federeito/valentino-api/controllers/admin"
	orderControllers "github.com/federeito/valentino-api/controllers/orders"
	productController "github.com/federeito/valentino-api/controllers/product"
	"github.com/federeito/valentino-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API key.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// Wholesale account approval
		adminGroup.GET("/users/pending", adminController.ListPendingUsers(db))
		adminGroup.POST("/users/approve", adminController.ApproveUser(db))
		adminGroup.POST("/users/price-visibility", adminController.SetPriceVisibility(db))

		// Order operations
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		adminGroup.PUT("/orders/:ref/status", orderControllers.AppendStatusHandler(db))

		// Catalog export
		adminGroup.GET("/products/export", productController.ExportProductsToExcel(db))
	}
}
