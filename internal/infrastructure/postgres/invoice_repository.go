package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// La tabla invoices lleva UNIQUE(number): esa es la defensa final de
// unicidad del número bajo concurrencia.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, client_id, date, due_date, status, total_amount,
	currency, payment_link, payment_status, stripe_payment_id, created_at, updated_at`

// Create persiste la cabecera de la factura.
// Devuelve domain.ErrDuplicate si el número ya existe (constraint único).
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, number, client_id, date, due_date, status, total_amount,
		                      currency, payment_link, payment_status, stripe_payment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.ClientID, invoice.Date, invoice.DueDate,
		invoice.Status, invoice.TotalAmount, invoice.Currency,
		nullIfEmpty(invoice.PaymentLink), invoice.PaymentStatus, nullIfEmpty(invoice.StripePaymentID),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.getOne(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByNumber obtiene una factura por su número (chequeo previo del generador).
func (r *InvoiceRepo) GetByNumber(number string) (*entity.Invoice, error) {
	return r.getOne(`SELECT `+invoiceColumns+` FROM invoices WHERE number = $1`, number)
}

func (r *InvoiceRepo) getOne(query string, arg any) (*entity.Invoice, error) {
	var inv entity.Invoice
	var paymentLink, stripePaymentID *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&inv.ID, &inv.Number, &inv.ClientID, &inv.Date, &inv.DueDate, &inv.Status,
		&inv.TotalAmount, &inv.Currency, &paymentLink, &inv.PaymentStatus, &stripePaymentID,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.PaymentLink = derefStr(paymentLink)
	inv.StripePaymentID = derefStr(stripePaymentID)
	return &inv, nil
}

// GetItemsByInvoiceID obtiene todas las líneas de una factura.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var item entity.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// ListByClient lista las facturas de un cliente (más recientes primero).
func (r *InvoiceRepo) ListByClient(clientID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE client_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list invoices by client: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		var paymentLink, stripePaymentID *string
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.ClientID, &inv.Date, &inv.DueDate, &inv.Status,
			&inv.TotalAmount, &inv.Currency, &paymentLink, &inv.PaymentStatus, &stripePaymentID,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.PaymentLink = derefStr(paymentLink)
		inv.StripePaymentID = derefStr(stripePaymentID)
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// UpdateStatus cambia solo el estado de la factura. Los campos financieros
// son inmutables después del guardado.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	query := `UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}
