package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
)

const (
	apiBaseURL     = "https://api.stripe.com"
	requestTimeout = 10 * time.Second
)

var _ billing.PaymentLinkProvider = (*Client)(nil)

// Client adaptador mínimo sobre la API REST de Stripe para crear payment
// links de un solo uso por factura. Stripe usa formularios url-encoded, no
// JSON, en las peticiones.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. Si secretKey está vacío el cliente queda
// deshabilitado y CreatePaymentLink devuelve error sin tocar la red.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   apiBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type paymentLinkResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreatePaymentLink crea un product+price inline y el payment link asociado.
// El monto se convierte a unidades menores (céntimos) redondeando a 2
// decimales antes de multiplicar.
func (c *Client) CreatePaymentLink(ctx context.Context, params billing.PaymentLinkParams) (*billing.PaymentLink, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("stripe no configurado")
	}

	minorUnits := params.Amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	if minorUnits <= 0 {
		return nil, fmt.Errorf("monto inválido para payment link: %s", params.Amount)
	}

	form := url.Values{}
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][product_data][name]", params.Description)
	form.Set("line_items[0][price_data][unit_amount]", fmt.Sprintf("%d", minorUnits))
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[invoice_number]", params.InvoiceNumber)
	if params.ClientEmail != "" {
		form.Set("metadata[client_email]", params.ClientEmail)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_links", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creando request a Stripe: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error llamando a Stripe: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error leyendo respuesta de Stripe: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var stripeErr stripeErrorResponse
		if err := json.Unmarshal(body, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			log.Warn().
				Int("status", resp.StatusCode).
				Str("type", stripeErr.Error.Type).
				Str("invoice_number", params.InvoiceNumber).
				Msg("Stripe rechazó la creación del payment link")
			return nil, fmt.Errorf("stripe: %s", stripeErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe respondió %d", resp.StatusCode)
	}

	var link paymentLinkResponse
	if err := json.Unmarshal(body, &link); err != nil {
		return nil, fmt.Errorf("error parseando respuesta de Stripe: %w", err)
	}
	if link.URL == "" {
		return nil, fmt.Errorf("stripe devolvió un payment link sin URL")
	}

	return &billing.PaymentLink{URL: link.URL, ExternalID: link.ID}, nil
}
