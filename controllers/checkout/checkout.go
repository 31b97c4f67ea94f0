package checkoutControllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/federeito/valentino-api/cart"
	"github.com/federeito/valentino-api/models"
	paymentControllers "github.com/federeito/valentino-api/controllers/payments"
)

var (
	ErrEmptyCart            = errors.New("cart resolved to no valid items")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// CartProduct accepts both wire shapes: the legacy bare product id and the
// current {productId, color} object. Both normalize to the same struct.
type CartProduct struct {
	ProductID uint
	Color     *cart.Color
}

func (p *CartProduct) UnmarshalJSON(data []byte) error {
	var id json.Number
	if err := json.Unmarshal(data, &id); err == nil {
		return p.setID(id.String())
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return p.setID(s)
	}

	var obj struct {
		ProductID json.Number `json:"productId"`
		Color     *cart.Color `json:"color"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unrecognized cart entry shape: %w", err)
	}
	p.Color = obj.Color
	return p.setID(obj.ProductID.String())
}

func (p *CartProduct) setID(raw string) error {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", raw)
	}
	p.ProductID = uint(id)
	return nil
}

type Request struct {
	Email        string        `json:"email" binding:"required,email"`
	Name         string        `json:"name" binding:"required"`
	Address      string        `json:"address"`
	City         string        `json:"city"`
	State        string        `json:"state"`
	Zip          string        `json:"zip"`
	CartProducts []CartProduct `json:"cartProducts"`
	PaymentMethod string       `json:"paymentMethod" binding:"required"`
}

// Result reports a finished checkout. URL is set on the gateway path;
// Total and Message on the transfer path.
type Result struct {
	OrderRef  string
	URL       string
	Total     decimal.Decimal
	Message   string
	EmailSent bool
}

type Catalog interface {
	ProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
}

type Mailer interface {
	SendTransferInstructions(ctx context.Context, order *models.Order, total decimal.Decimal) error
}

type Service struct {
	catalog Catalog
	orders  OrderStore
	gateway paymentControllers.Gateway
	mailer  Mailer
}

func NewService(catalog Catalog, orders OrderStore, gateway paymentControllers.Gateway, mailer Mailer) *Service {
	return &Service{catalog: catalog, orders: orders, gateway: gateway, mailer: mailer}
}

// candidate is an aggregated (product, color) group awaiting its catalog row.
type candidate struct {
	productID uint
	color     *cart.Color
	quantity  int
}

// aggregate groups raw entries by product id and color name, preserving
// first-seen order. Repetition in the input encodes quantity.
func aggregate(entries []CartProduct) []candidate {
	var out []candidate
	index := make(map[string]int)
	for _, e := range entries {
		key := strconv.FormatUint(uint64(e.ProductID), 10)
		if e.Color != nil {
			key += "-" + e.Color.Name
		}
		if i, ok := index[key]; ok {
			out[i].quantity++
			continue
		}
		index[key] = len(out)
		out = append(out, candidate{productID: e.ProductID, color: e.Color, quantity: 1})
	}
	return out
}

// Checkout aggregates the cart, snapshots authoritative prices, persists
// the order and branches into the selected payment flow. The order is kept
// even when the follow-up gateway call or email fails: it stays unpaid and
// payment can be retried separately.
func (s *Service) Checkout(ctx context.Context, req *Request) (*Result, error) {
	method := models.PaymentMethod(req.PaymentMethod)
	if method != models.PaymentMethodGateway && method != models.PaymentMethodTransfer {
		return nil, ErrInvalidPaymentMethod
	}

	candidates := aggregate(req.CartProducts)

	var ids []uint
	seen := make(map[uint]bool)
	for _, cand := range candidates {
		if !seen[cand.productID] {
			seen[cand.productID] = true
			ids = append(ids, cand.productID)
		}
	}

	var products map[uint]models.Product
	if len(ids) > 0 {
		var err error
		products, err = s.catalog.ProductsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("catalog lookup failed: %w", err)
		}
	}

	var lineItems []models.LineItem
	for _, cand := range candidates {
		product, ok := products[cand.productID]
		if !ok || cand.quantity <= 0 {
			continue
		}

		title := product.Title
		var colorName, colorCode string
		if cand.color != nil {
			title = fmt.Sprintf("%s - Color: %s", product.Title, cand.color.Name)
			colorName = cand.color.Name
			colorCode = cand.color.Code
		}

		qty := decimal.NewFromInt(int64(cand.quantity))
		lineItems = append(lineItems, models.LineItem{
			ProductID:     product.ID,
			Title:         title,
			OriginalTitle: product.Title,
			ColorName:     colorName,
			ColorCode:     colorCode,
			Quantity:      cand.quantity,
			UnitPrice:     product.Price,
			TotalPrice:    product.Price.Mul(qty),
		})
	}

	if len(lineItems) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		Ref:           uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Zip:           req.Zip,
		Paid:          false,
		PaymentMethod: method,
		LineItems:     lineItems,
		StatusHistory: []models.StatusEvent{{Status: models.StatusPending}},
		CreatedAt:     time.Now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	total := decimal.Zero
	for _, item := range order.LineItems {
		total = total.Add(item.TotalPrice)
	}

	if method == models.PaymentMethodGateway {
		return s.gatewayFlow(ctx, order)
	}
	return s.transferFlow(ctx, order, total)
}

func (s *Service) gatewayFlow(ctx context.Context, order *models.Order) (*Result, error) {
	items := make([]paymentControllers.SessionItem, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		items = append(items, paymentControllers.SessionItem{
			Title:     li.Title,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
		})
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, items, order.Ref)
	if err != nil {
		// The unpaid order stays persisted; reconciliation is manual.
		return nil, fmt.Errorf("payment processing failed: %w", err)
	}
	return &Result{OrderRef: order.Ref, URL: url}, nil
}

func (s *Service) transferFlow(ctx context.Context, order *models.Order, total decimal.Decimal) (*Result, error) {
	result := &Result{
		OrderRef:  order.Ref,
		Total:     total,
		Message:   "Pedido creado. Te enviamos las instrucciones de transferencia por correo.",
		EmailSent: true,
	}
	if err := s.mailer.SendTransferInstructions(ctx, order, total); err != nil {
		// Email is best-effort: the order already exists, so this is a
		// partial success rather than a failed checkout.
		result.Message = "Pedido creado, pero no pudimos enviar el correo de confirmación. Contactanos para recibir los datos de transferencia."
		result.EmailSent = false
	}
	return result, nil
}
