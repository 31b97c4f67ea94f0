package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/federeito/valentino-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *models.Order {
	return &models.Order{
		Ref:   "ord-123",
		Name:  "Ana",
		Email: "ana@example.com",
		LineItems: []models.LineItem{
			{Title: "Vela aromática - Color: Rojo", Quantity: 2, TotalPrice: decimal.NewFromInt(3000)},
			{Title: "Difusor", Quantity: 1, TotalPrice: decimal.NewFromInt(1500)},
		},
	}
}

func TestTransferInstructionsBody(t *testing.T) {
	bank := BankDetails{
		AccountHolder: "Valentino SRL",
		AccountNumber: "0011223344",
		RoutingCode:   "2850590940090418135201",
		Alias:         "valentino.mayorista",
	}

	body := TransferInstructionsBody(sampleOrder(), decimal.NewFromInt(4500), bank)

	assert.Contains(t, body, "ord-123")
	assert.Contains(t, body, "Vela aromática - Color: Rojo x2")
	assert.Contains(t, body, "Total: $4500.00")
	assert.Contains(t, body, "Valentino SRL")
	assert.Contains(t, body, "2850590940090418135201")
	assert.Contains(t, body, "valentino.mayorista")
}

func TestSendPostsToRelay(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := &RelayMailer{relayURL: srv.URL, apiKey: "secret", from: "tienda@example.com", client: srv.Client()}
	err := m.Send(context.Background(), "ana@example.com", "hola", "cuerpo")

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got["to"])
	assert.Equal(t, "tienda@example.com", got["from"])
}

func TestSendRelayErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := &RelayMailer{relayURL: srv.URL, apiKey: "secret", from: "tienda@example.com", client: srv.Client()}
	err := m.Send(context.Background(), "ana@example.com", "hola", "cuerpo")

	assert.Error(t, err)
}
