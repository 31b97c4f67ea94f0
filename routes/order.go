package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/federeito/valentino-api/controllers/orders"
	"github.com/federeito/valentino-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Orders for the session user, newest first
		orders.GET("/user", orderControllers.GetUserOrdersHandler(db))

		// Status timeline for one order
		orders.GET("/:ref", orderControllers.GetOrderTimelineHandler(db))
	}

	// websocket endpoint for real-time status updates
	r.GET("/orders/ws/status", orderControllers.StatusWebSocketHandler)
}
