package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/federeito/valentino-api/controllers/cart"
	permissionControllers "github.com/federeito/valentino-api/controllers/permissions"
	productController "github.com/federeito/valentino-api/controllers/product"
	userControllers "github.com/federeito/valentino-api/controllers/user"
	"github.com/federeito/valentino-api/middleware"
)

// SetupStorefrontRoutes registers the public catalog endpoints. Browsing
// needs no session; prices are gated client-side by /user/permissions.
func SetupStorefrontRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productController.GetProducts(db))
	r.GET("/products/:id", productController.GetProductByID(db))
	r.GET("/categories", productController.GetCategories(db))
}

// SetupUserRoutes registers all "/user/*" endpoints.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	// The permission gate answers 200 even without a session.
	r.GET("/user/permissions",
		middleware.OptionalToken,
		permissionControllers.PermissionsHandler(
			permissionControllers.NewUserLookup(deps.DB),
			permissionControllers.AdminEmails(),
		),
	)

	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/", userControllers.GetUser(deps.DB))
		userGroup.PUT("/", userControllers.UpdateUser(deps.DB))

		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(deps.CartStorage))
			cartGroup.POST("/", cartControllers.AddCartEntry(deps.CartStorage))
			cartGroup.DELETE("/:product_id", cartControllers.RemoveCartEntry(deps.CartStorage))
			cartGroup.DELETE("/", cartControllers.ClearCart(deps.CartStorage))
		}
	}
}
