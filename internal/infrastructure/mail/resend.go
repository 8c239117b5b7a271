package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
)

const (
	resendEndpoint = "https://api.resend.com/emails"
	requestTimeout = 15 * time.Second
)

var _ billing.MailSender = (*ResendSender)(nil)

// ResendSender envía correos vía la API HTTP de Resend.
type ResendSender struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
}

// NewResendSender construye el adaptador. apiKey vacío deja el servicio
// deshabilitado: Send devuelve domain.ErrMailNotConfigured.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type resendErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send entrega el mensaje y devuelve el ID asignado por el proveedor. Un ID
// vacío nunca cuenta como envío confirmado para quien llama.
func (s *ResendSender) Send(ctx context.Context, msg billing.MailMessage) (string, error) {
	if s.apiKey == "" {
		return "", domain.ErrMailNotConfigured
	}

	payload, err := json.Marshal(sendRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("error serializando correo: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error creando request a Resend: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error llamando a Resend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error leyendo respuesta de Resend: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr resendErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return "", fmt.Errorf("resend: %s", apiErr.Message)
		}
		return "", fmt.Errorf("resend respondió %d", resp.StatusCode)
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error parseando respuesta de Resend: %w", err)
	}
	return result.ID, nil
}
