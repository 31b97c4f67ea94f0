package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/federeito/valentino-api/models"
	"github.com/shopspring/decimal"
)

// BankDetails are the transfer coordinates included in the confirmation
// email on the bank-transfer checkout path.
type BankDetails struct {
	AccountHolder string
	AccountNumber string
	RoutingCode   string
	Alias         string
}

// RelayMailer delivers mail through an external HTTP relay. Sends are
// single-attempt and bounded; callers decide whether a failure matters.
type RelayMailer struct {
	relayURL string
	apiKey   string
	from     string
	bank     BankDetails
	client   *http.Client
}

func NewRelayMailerFromEnv() (*RelayMailer, error) {
	m := &RelayMailer{
		relayURL: os.Getenv("MAIL_RELAY_URL"),
		apiKey:   os.Getenv("MAIL_RELAY_KEY"),
		from:     os.Getenv("MAIL_FROM"),
		bank: BankDetails{
			AccountHolder: os.Getenv("BANK_ACCOUNT_HOLDER"),
			AccountNumber: os.Getenv("BANK_ACCOUNT_NUMBER"),
			RoutingCode:   os.Getenv("BANK_ROUTING_CODE"),
			Alias:         os.Getenv("BANK_ALIAS"),
		},
		client: &http.Client{Timeout: 10 * time.Second},
	}
	if m.relayURL == "" || m.apiKey == "" || m.from == "" {
		return nil, fmt.Errorf("mail relay configuration missing")
	}
	return m, nil
}

// Send posts one message to the relay.
func (m *RelayMailer) Send(ctx context.Context, to, subject, body string) error {
	payload := map[string]string{
		"from":    m.from,
		"to":      to,
		"subject": subject,
		"text":    body,
	}
	jsonData, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.relayURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mail relay: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail relay error (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendTransferInstructions emails the itemized order plus the bank transfer
// coordinates to the customer.
func (m *RelayMailer) SendTransferInstructions(ctx context.Context, order *models.Order, total decimal.Decimal) error {
	subject := fmt.Sprintf("Pedido %s - Instrucciones de transferencia", order.Ref)
	return m.Send(ctx, order.Email, subject, TransferInstructionsBody(order, total, m.bank))
}

// TransferInstructionsBody renders the plain-text confirmation email.
func TransferInstructionsBody(order *models.Order, total decimal.Decimal, bank BankDetails) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hola %s,\n\n", order.Name)
	fmt.Fprintf(&b, "Recibimos tu pedido %s. Detalle:\n\n", order.Ref)
	for _, item := range order.LineItems {
		fmt.Fprintf(&b, "  - %s x%d — $%s\n", item.Title, item.Quantity, item.TotalPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n\n", total.StringFixed(2))

	b.WriteString("Datos para la transferencia:\n")
	fmt.Fprintf(&b, "  Titular: %s\n", bank.AccountHolder)
	fmt.Fprintf(&b, "  Cuenta: %s\n", bank.AccountNumber)
	fmt.Fprintf(&b, "  CBU: %s\n", bank.RoutingCode)
	fmt.Fprintf(&b, "  Alias: %s\n\n", bank.Alias)
	b.WriteString("Una vez realizada la transferencia, respondé este correo con el comprobante.\n")

	return b.String()
}
