package billing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	domainbilling "github.com/jhoicas/voiceinvoice-api/internal/domain/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

// mailTimeout tope para la llamada al proveedor de correo.
const mailTimeout = 15 * time.Second

// Mensajes del sobre de resultado del envío.
const (
	msgInvoiceNotFound = "factura no encontrada"
	msgMailNotConfig   = "servicio de correo no configurado"
	msgMailNotSent     = "el correo no pudo ser enviado"
)

// SendEmailUseCase envía la notificación de una factura y transiciona su
// estado DRAFT → SENT solo tras aceptación confirmada del proveedor.
// Reenviar es idempotente: el estado queda fijado en SENT.
type SendEmailUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	mailer      MailSender
	cache       CacheInvalidator // nil = sin invalidación
}

// NewSendEmailUseCase construye el caso de uso.
func NewSendEmailUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	mailer MailSender,
	cache CacheInvalidator,
) *SendEmailUseCase {
	return &SendEmailUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		mailer:      mailer,
		cache:       cache,
	}
}

// Send valida el destinatario, carga factura y cliente, renderiza la
// notificación (con escape contra inyección) y la envía. Un fallo del
// proveedor deja el estado de la factura sin cambios y reporta su mensaje.
func (uc *SendEmailUseCase) Send(ctx context.Context, invoiceID, email string) *dto.SendEmailResult {
	recipient, err := domainbilling.ValidateEmail("email", email)
	if err != nil {
		return &dto.SendEmailResult{Success: false, Error: err.Error()}
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", invoiceID).Msg("enviar correo: cargar factura")
		return &dto.SendEmailResult{Success: false, Error: msgInvoiceNotFound}
	}
	if inv == nil {
		return &dto.SendEmailResult{Success: false, Error: msgInvoiceNotFound}
	}

	clientName := ""
	if client, err := uc.clientRepo.GetByID(inv.ClientID); err == nil && client != nil {
		clientName = client.Name
	}

	subject, html, err := RenderInvoiceMail(inv, clientName)
	if err != nil {
		log.Error().Err(err).Str("number", inv.Number).Msg("enviar correo: renderizar plantilla")
		return &dto.SendEmailResult{Success: false, Error: msgMailNotSent}
	}

	sendCtx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	providerID, err := uc.mailer.Send(sendCtx, MailMessage{
		To:      recipient,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMailNotConfigured) {
			return &dto.SendEmailResult{Success: false, Error: msgMailNotConfig}
		}
		return &dto.SendEmailResult{Success: false, Error: err.Error()}
	}
	if providerID == "" {
		return &dto.SendEmailResult{Success: false, Error: msgMailNotSent}
	}

	// Solo con aceptación confirmada se fija el estado. DRAFT pasa a SENT;
	// SENT se mantiene (reenvío idempotente); PAID no se degrada.
	if inv.Status == entity.InvoiceStatusDraft {
		if err := uc.invoiceRepo.UpdateStatus(inv.ID, entity.InvoiceStatusSent); err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID).Msg("enviar correo: actualizar estado")
			return &dto.SendEmailResult{Success: false, Error: msgMailNotSent}
		}
	}

	if uc.cache != nil {
		uc.cache.InvalidateViews(ctx)
	}
	return &dto.SendEmailResult{Success: true}
}
