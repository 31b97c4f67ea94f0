package paymentControllers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/federeito/valentino-api/models"
	"gorm.io/gorm"
)

// OrderConfirmer applies the payment confirmation exactly once per order.
type OrderConfirmer interface {
	// ConfirmPayment marks the order paid and decrements stock for every
	// line item, all inside one transaction. Returns false when the order
	// was already paid (duplicate delivery).
	ConfirmPayment(ctx context.Context, orderRef string) (bool, error)
}

type gormConfirmer struct {
	db *gorm.DB
}

func NewOrderConfirmer(db *gorm.DB) OrderConfirmer {
	return &gormConfirmer{db: db}
}

func (g *gormConfirmer) ConfirmPayment(ctx context.Context, orderRef string) (bool, error) {
	applied := false
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("LineItems").Where("ref = ?", orderRef).First(&order).Error; err != nil {
			return err
		}

		// The paid flag is the single-writer gate: the conditional update
		// makes duplicate deliveries lose the race instead of
		// double-decrementing stock.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND paid = ?", order.ID, false).
			Update("paid", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		if err := tx.Create(&models.StatusEvent{
			OrderID: order.ID,
			Status:  models.StatusPaymentConfirmed,
		}).Error; err != nil {
			return err
		}

		for _, item := range order.LineItems {
			// Keyed on product id; stock may go negative, there is no floor.
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return applied, err
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// WebhookHandler receives asynchronous payment notifications. Deliveries
// are at-least-once and untrusted: the payment status is always re-fetched
// from the gateway, never taken from the callback body.
func WebhookHandler(gateway Gateway, orders OrderConfirmer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event webhookEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook body"})
			return
		}

		if event.Type != "payment" {
			c.JSON(http.StatusOK, gin.H{"message": "event ignored"})
			return
		}

		payment, err := gateway.GetPayment(c.Request.Context(), event.Data.ID)
		if err != nil {
			log.Printf("❌ Failed to verify payment %s: %v", event.Data.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify payment"})
			return
		}

		if payment.Status != "approved" {
			c.JSON(http.StatusOK, gin.H{"message": "payment not approved yet"})
			return
		}

		if payment.ExternalReference == "" {
			log.Printf("❌ Payment %s carries no order reference", payment.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment has no order reference"})
			return
		}

		applied, err := orders.ConfirmPayment(c.Request.Context(), payment.ExternalReference)
		if err != nil {
			log.Printf("❌ Failed to confirm order %s: %v", payment.ExternalReference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm order"})
			return
		}

		if !applied {
			c.JSON(http.StatusOK, gin.H{"message": "order already confirmed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "payment confirmed"})
	}
}
