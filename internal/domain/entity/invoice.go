package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura persistida.
// La única transición permitida en este núcleo es DRAFT → SENT, y solo tras
// confirmación del proveedor de correo.
const (
	InvoiceStatusDraft = "DRAFT"
	InvoiceStatusSent  = "SENT"
	InvoiceStatusPaid  = "PAID"
)

// Estados de pago.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

// Monedas soportadas.
const (
	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"
)

// Invoice representa la cabecera de una factura persistida.
//
// TotalAmount se deriva de los ítems en el momento del guardado y es
// autoritativo desde entonces: nunca se recalcula a partir de los ítems
// persistidos. Number es único e inmutable una vez asignado.
type Invoice struct {
	ID              string
	Number          string // INV-YYYYMMDD-XXXX, único a perpetuidad
	ClientID        string
	Date            time.Time
	DueDate         time.Time
	Status          string // DRAFT | SENT | PAID
	TotalAmount     decimal.Decimal
	Currency        string // EUR | USD
	PaymentLink     string // opcional; se fija una sola vez al crear
	PaymentStatus   string // PENDING | ...
	StripePaymentID string // opcional; id externo del proveedor de pagos
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
