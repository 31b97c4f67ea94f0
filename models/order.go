package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodGateway  PaymentMethod = "gateway"  // hosted checkout page
	PaymentMethodTransfer PaymentMethod = "transfer" // manual bank transfer
)

// Order status vocabulary (the storefront is Spanish-facing).
const (
	StatusPending          = "Pendiente"
	StatusPaymentConfirmed = "Pago confirmado"
	StatusPreparing        = "En preparación"
	StatusDispatched       = "Despachado"
	StatusDelivered        = "Entregado"
	StatusCancelled        = "Anulado"
)

type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Ref           string        `gorm:"uniqueIndex;not null" json:"ref"`
	Name          string        `gorm:"not null" json:"name"`
	Email         string        `gorm:"index;not null" json:"email"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	State         string        `json:"state"`
	Zip           string        `json:"zip"`
	Paid          bool          `gorm:"not null;default:false" json:"paid"`
	PaymentMethod PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	LineItems     []LineItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"line_items"`
	StatusHistory []StatusEvent `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history"`
	CreatedAt     time.Time     `json:"created_at"`
}

// LineItem snapshots the product at checkout time. UnitPrice always comes
// from the catalog row, never from client input.
type LineItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"index" json:"order_id"`
	ProductID     uint            `gorm:"not null" json:"product_id"`
	Title         string          `json:"title"`
	OriginalTitle string          `json:"original_title"`
	ColorName     string          `json:"color_name,omitempty"`
	ColorCode     string          `json:"color_code,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric" json:"unit_price"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric" json:"total_price"`
}

// StatusEvent is appended by operational action and by the payment
// confirmation handler; orders never remove events.
type StatusEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index" json:"order_id"`
	Status    string    `gorm:"type:VARCHAR(40);not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
