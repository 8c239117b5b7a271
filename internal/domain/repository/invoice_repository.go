package repository

import "github.com/jhoicas/voiceinvoice-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
//
// Create debe devolver domain.ErrDuplicate si el número de factura ya existe
// (constraint único sobre invoices.number): es la última defensa contra
// colisiones bajo concurrencia y lo que habilita el reintento del generador.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetByNumber(number string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	ListByClient(clientID string) ([]*entity.Invoice, error)
	// UpdateStatus cambia solo el estado (los campos financieros son inmutables).
	UpdateStatus(id, status string) error
}
