package paymentControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// SessionItem is one line of a hosted-checkout session request.
type SessionItem struct {
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency_id"`
}

// Payment is the gateway's authoritative view of a payment. The webhook
// handler always re-reads this instead of trusting the callback body.
type Payment struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, items []SessionItem, externalRef string) (string, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

// HTTPGateway talks to the payment provider's REST API.
type HTTPGateway struct {
	apiURL      string
	accessToken string
	currency    string
	successURL  string
	failureURL  string
	pendingURL  string
	client      *http.Client
}

// NewGatewayFromEnv reads the provider configuration, failing fast when the
// credentials are missing.
func NewGatewayFromEnv() (*HTTPGateway, error) {
	g := &HTTPGateway{
		apiURL:      os.Getenv("PAYMENT_API_URL"),
		accessToken: os.Getenv("PAYMENT_ACCESS_TOKEN"),
		currency:    os.Getenv("PAYMENT_CURRENCY"),
		successURL:  os.Getenv("PAYMENT_SUCCESS_URL"),
		failureURL:  os.Getenv("PAYMENT_FAILURE_URL"),
		pendingURL:  os.Getenv("PAYMENT_PENDING_URL"),
		client:      &http.Client{Timeout: 15 * time.Second},
	}
	if g.apiURL == "" || g.accessToken == "" {
		return nil, fmt.Errorf("payment gateway configuration missing")
	}
	if g.currency == "" {
		g.currency = "ARS"
	}
	return g, nil
}

type checkoutSessionResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateCheckoutSession asks the provider for a hosted checkout page. The
// order reference travels as opaque metadata so the webhook can correlate
// the payment back to the order.
func (g *HTTPGateway) CreateCheckoutSession(ctx context.Context, items []SessionItem, externalRef string) (string, error) {
	for i := range items {
		if items[i].Currency == "" {
			items[i].Currency = g.currency
		}
	}

	payload := map[string]interface{}{
		"items":              items,
		"external_reference": externalRef,
		"auto_return":        "approved",
		"back_urls": map[string]string{
			"success": g.successURL,
			"failure": g.failureURL,
			"pending": g.pendingURL,
		},
	}

	body, err := g.post(ctx, g.apiURL+"/checkout/preferences", payload)
	if err != nil {
		return "", err
	}

	var resp checkoutSessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse gateway response: %v", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("gateway error: %s", resp.Error.Message)
	}
	if resp.InitPoint == "" {
		return "", fmt.Errorf("gateway returned empty checkout URL")
	}
	return resp.InitPoint, nil
}

// GetPayment fetches the payment's current status from the provider.
func (g *HTTPGateway) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(body))
	}

	var payment Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("failed to parse payment: %v", err)
	}
	return &payment, nil
}

func (g *HTTPGateway) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	jsonData, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
