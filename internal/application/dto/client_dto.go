package dto

import "github.com/shopspring/decimal"

// ClientResponse cliente en el listado.
type ClientResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	VATNumber    string `json:"vatNumber,omitempty"`
	CreatedAt    string `json:"createdAt"`
	InvoiceCount int    `json:"invoiceCount"`
}

// ClientListResponse respuesta paginada de GET /api/clients.
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	HasMore bool             `json:"hasMore"`
}

// ClientInvoiceDTO factura resumida en el detalle de un cliente.
type ClientInvoiceDTO struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Date      string          `json:"date"`
	DueDate   string          `json:"dueDate"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"createdAt"`
}

// ClientDetailResponse respuesta de GET /api/clients/:id.
type ClientDetailResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email,omitempty"`
	Address   string             `json:"address,omitempty"`
	VATNumber string             `json:"vatNumber,omitempty"`
	CreatedAt string             `json:"createdAt"`
	Invoices  []ClientInvoiceDTO `json:"invoices"`
}
