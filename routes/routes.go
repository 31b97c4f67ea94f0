package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/federeito/valentino-api/cart"
	checkoutControllers "github.com/federeito/valentino-api/controllers/checkout"
	"github.com/federeito/valentino-api/mailer"
	paymentControllers "github.com/federeito/valentino-api/controllers/payments"
)

// Deps carries the external collaborators the route handlers need.
type Deps struct {
	DB          *gorm.DB
	CartStorage cart.Storage
	Gateway     paymentControllers.Gateway
	Mailer      *mailer.RelayMailer
}

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public storefront routes
	SetupStorefrontRoutes(r, deps.DB)

	// User routes (JWT protected) + the always-200 permission gate
	SetupUserRoutes(r, deps)

	// Checkout + payment webhook
	SetupCheckoutRoutes(r, deps)

	// Order history and tracking
	SetupOrderRoutes(r, deps.DB)

	// Admin routes (API key protected)
	SetupAdminRoutes(r, deps.DB)
}

func SetupCheckoutRoutes(r *gin.Engine, deps Deps) {
	svc := checkoutControllers.NewService(
		checkoutControllers.NewCatalog(deps.DB),
		checkoutControllers.NewOrderStore(deps.DB),
		deps.Gateway,
		deps.Mailer,
	)
	r.POST("/checkout", checkoutControllers.CheckoutHandler(svc))

	confirmer := paymentControllers.NewOrderConfirmer(deps.DB)
	r.POST("/payments/webhook", paymentControllers.WebhookHandler(deps.Gateway, confirmer))
}
