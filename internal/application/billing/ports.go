// Package billing contiene los casos de uso de facturación: guardado
// idempotente del documento candidato, envío por correo, resolución de
// clientes y exportación a PDF.
package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del store con un
// repositorio de facturas atado a la tx. La cabecera y las líneas se escriben
// juntas o no se escribe nada.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// PaymentLinkParams parámetros para solicitar un enlace de pago.
// Amount va en la unidad mayor de la moneda; el proveedor convierte a la
// unidad menor internamente.
type PaymentLinkParams struct {
	Amount        decimal.Decimal
	Currency      string
	Description   string
	InvoiceNumber string
	ClientEmail   string // opcional
}

// PaymentLink resultado del proveedor: URL pagable y su id externo.
type PaymentLink struct {
	URL        string
	ExternalID string
}

// PaymentLinkProvider puerto de salida hacia el proveedor de enlaces de pago.
// Es best-effort: un fallo (sin configuración, error del proveedor, timeout)
// no bloquea la persistencia de la factura.
type PaymentLinkProvider interface {
	CreatePaymentLink(ctx context.Context, params PaymentLinkParams) (*PaymentLink, error)
}

// MailMessage correo a enviar (HTML ya renderizado y escapado).
type MailMessage struct {
	To      string
	Subject string
	HTML    string
}

// MailSender puerto de salida hacia el proveedor de correo transaccional.
// Send devuelve el id asignado por el proveedor; solo un id no vacío cuenta
// como aceptación confirmada. Debe devolver domain.ErrMailNotConfigured si
// faltan credenciales.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) (providerID string, err error)
}

// CacheInvalidator invalida vistas cacheadas aguas abajo (listados, dashboard)
// tras un guardado o envío exitoso. Equivalente al revalidate de la capa web.
type CacheInvalidator interface {
	InvalidateViews(ctx context.Context)
}
