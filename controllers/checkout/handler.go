package checkoutControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler drives a full checkout from the request body.
// Responds 200 {url} on the gateway path, 200 {orderId, message, total} on
// the transfer path, 400 for validation failures, 500 for downstream ones.
func CheckoutHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		result, err := svc.Checkout(c.Request.Context(), &req)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidPaymentMethod):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
			case errors.Is(err, ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty or has no valid products"})
			default:
				log.Printf("❌ Checkout failed for %s: %v", req.Email, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
			}
			return
		}

		if result.URL != "" {
			c.JSON(http.StatusOK, gin.H{"url": result.URL})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orderId": result.OrderRef,
			"message": result.Message,
			"total":   result.Total,
		})
	}
}
