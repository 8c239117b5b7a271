package dto

import "github.com/shopspring/decimal"

// Estados del documento candidato (pre-persistencia).
const (
	CandidateStatusDraft     = "draft"
	CandidateStatusFinalized = "finalized"
)

// PartyDTO emisor o cliente dentro del documento candidato.
type PartyDTO struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CandidateItemDTO línea candidata (descripción × cantidad × precio unitario).
type CandidateItemDTO struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CandidateInvoiceDTO documento candidato producido por el chat/voz.
// Es la entrada de POST /api/invoices; el id del cliente es consultivo.
type CandidateInvoiceDTO struct {
	ID       string             `json:"id,omitempty"`
	Status   string             `json:"status,omitempty"` // draft | finalized
	Sender   PartyDTO           `json:"sender,omitempty"`
	Client   PartyDTO           `json:"client"`
	Date     string             `json:"date"`    // YYYY-MM-DD
	DueDate  string             `json:"dueDate"` // YYYY-MM-DD
	Items    []CandidateItemDTO `json:"items"`
	Currency string             `json:"currency"` // EUR | USD
	TaxRate  decimal.Decimal    `json:"taxRate"`  // porcentaje, [0,100]
	Notes    string             `json:"notes,omitempty"`
}

// SaveInvoiceResult sobre de resultado del guardado.
// Nunca se propaga un error al caller: success=false + mensaje.
type SaveInvoiceResult struct {
	Success       bool   `json:"success"`
	InvoiceID     string `json:"invoiceId,omitempty"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	Error         string `json:"error,omitempty"`
}

// SendEmailRequest body de POST /api/invoices/:id/send.
type SendEmailRequest struct {
	Email string `json:"email"`
}

// SendEmailResult sobre de resultado del envío de correo.
type SendEmailResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// InvoiceItemResponse línea persistida en respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// InvoiceResponse factura persistida con sus líneas.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	ClientID      string                `json:"clientId"`
	ClientName    string                `json:"clientName,omitempty"`
	Date          string                `json:"date"`
	DueDate       string                `json:"dueDate"`
	Status        string                `json:"status"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	Currency      string                `json:"currency"`
	PaymentLink   string                `json:"paymentLink,omitempty"`
	PaymentStatus string                `json:"paymentStatus"`
	Items         []InvoiceItemResponse `json:"items"`
}

// PaymentLinkResponse respuesta de GET /api/invoices/:id/payment-link.
type PaymentLinkResponse struct {
	PaymentLink   string `json:"paymentLink,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}
