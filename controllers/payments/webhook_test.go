package paymentControllers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockGateway implements Gateway for testing
type MockGateway struct {
	Payment *Payment
	Err     error
	Calls   int
}

func (m *MockGateway) CreateCheckoutSession(_ context.Context, _ []SessionItem, _ string) (string, error) {
	return "", errors.New("not used")
}

func (m *MockGateway) GetPayment(_ context.Context, _ string) (*Payment, error) {
	m.Calls++
	return m.Payment, m.Err
}

// MockConfirmer implements OrderConfirmer with real paid-gate semantics so
// duplicate deliveries can be exercised.
type MockConfirmer struct {
	Paid      map[string]bool
	Decrement map[string]int
	Err       error
}

func (m *MockConfirmer) ConfirmPayment(_ context.Context, ref string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	if m.Paid[ref] {
		return false, nil
	}
	m.Paid[ref] = true
	m.Decrement[ref] += 3 // stand-in for "one quantity's worth"
	return true, nil
}

func newWebhookRouter(gw Gateway, orders OrderConfirmer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.POST("/payments/webhook", WebhookHandler(gw, orders))
	return r
}

func deliver(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookDuplicateDeliveryIsIdempotent(t *testing.T) {
	gw := &MockGateway{Payment: &Payment{ID: "p1", Status: "approved", ExternalReference: "ord-1"}}
	orders := &MockConfirmer{Paid: map[string]bool{}, Decrement: map[string]int{}}
	r := newWebhookRouter(gw, orders)

	first := deliver(r, `{"type":"payment","data":{"id":"p1"}}`)
	second := deliver(r, `{"type":"payment","data":{"id":"p1"}}`)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.True(t, orders.Paid["ord-1"])
	// stock moved exactly once despite the redelivery
	assert.Equal(t, 3, orders.Decrement["ord-1"])
	// both deliveries re-verified against the gateway
	assert.Equal(t, 2, gw.Calls)
}

func TestWebhookIgnoresNonPaymentEvents(t *testing.T) {
	gw := &MockGateway{}
	orders := &MockConfirmer{Paid: map[string]bool{}, Decrement: map[string]int{}}
	r := newWebhookRouter(gw, orders)

	w := deliver(r, `{"type":"merchant_order","data":{"id":"x"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, gw.Calls)
	assert.Empty(t, orders.Paid)
}

func TestWebhookPendingPaymentIsNoOp(t *testing.T) {
	gw := &MockGateway{Payment: &Payment{ID: "p1", Status: "in_process", ExternalReference: "ord-1"}}
	orders := &MockConfirmer{Paid: map[string]bool{}, Decrement: map[string]int{}}
	r := newWebhookRouter(gw, orders)

	w := deliver(r, `{"type":"payment","data":{"id":"p1"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, orders.Paid["ord-1"])
}

func TestWebhookGatewayFailureAsksForRetry(t *testing.T) {
	gw := &MockGateway{Err: errors.New("gateway down")}
	orders := &MockConfirmer{Paid: map[string]bool{}, Decrement: map[string]int{}}
	r := newWebhookRouter(gw, orders)

	w := deliver(r, `{"type":"payment","data":{"id":"p1"}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookConfirmFailureAsksForRetry(t *testing.T) {
	gw := &MockGateway{Payment: &Payment{ID: "p1", Status: "approved", ExternalReference: "ord-1"}}
	orders := &MockConfirmer{Paid: map[string]bool{}, Decrement: map[string]int{}, Err: errors.New("db down")}
	r := newWebhookRouter(gw, orders)

	w := deliver(r, `{"type":"payment","data":{"id":"p1"}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookRejectsNonPost(t *testing.T) {
	gw := &MockGateway{}
	orders := &MockConfirmer{Paid: map[string]bool{}, Decrement: map[string]int{}}
	r := newWebhookRouter(gw, orders)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payments/webhook", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestWebhookMissingReferenceFails(t *testing.T) {
	gw := &MockGateway{Payment: &Payment{ID: "p1", Status: "approved"}}
	orders := &MockConfirmer{Paid: map[string]bool{}, Decrement: map[string]int{}}
	r := newWebhookRouter(gw, orders)

	w := deliver(r, `{"type":"payment","data":{"id":"p1"}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, orders.Paid)
}
