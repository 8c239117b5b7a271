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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
// La tabla clients lleva UNIQUE(name): el nombre es la clave natural del
// find-or-create y el constraint convierte la carrera de creación en
// domain.ErrDuplicate en lugar de clientes duplicados.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, email, address, vat_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, nullIfEmpty(client.Email), nullIfEmpty(client.Address),
		nullIfEmpty(client.VATNumber), client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.getOne(`
		SELECT id, name, email, address, vat_number, created_at, updated_at
		FROM clients WHERE id = $1`, id)
}

// GetByName obtiene un cliente por nombre (match exacto).
func (r *ClientRepo) GetByName(name string) (*entity.Client, error) {
	return r.getOne(`
		SELECT id, name, email, address, vat_number, created_at, updated_at
		FROM clients WHERE name = $1`, name)
}

func (r *ClientRepo) getOne(query string, arg any) (*entity.Client, error) {
	var c entity.Client
	var email, address, vatNumber *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.Name, &email, &address, &vatNumber, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	c.Email = derefStr(email)
	c.Address = derefStr(address)
	c.VATNumber = derefStr(vatNumber)
	return &c, nil
}

// List devuelve una página de clientes (más recientes primero) con su conteo
// de facturas, más el total de clientes.
func (r *ClientRepo) List(limit, offset int) ([]repository.ClientWithCount, int, error) {
	query := `
		SELECT c.id, c.name, c.email, c.address, c.vat_number, c.created_at, c.updated_at,
		       COUNT(i.id) AS invoice_count
		FROM clients c
		LEFT JOIN invoices i ON i.client_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var list []repository.ClientWithCount
	for rows.Next() {
		var row repository.ClientWithCount
		var email, address, vatNumber *string
		if err := rows.Scan(
			&row.Client.ID, &row.Client.Name, &email, &address, &vatNumber,
			&row.Client.CreatedAt, &row.Client.UpdatedAt, &row.InvoiceCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		row.Client.Email = derefStr(email)
		row.Client.Address = derefStr(address)
		row.Client.VATNumber = derefStr(vatNumber)
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.Count()
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Count devuelve el total de clientes.
func (r *ClientRepo) Count() (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM clients`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return total, nil
}

// Update actualiza email, address y updated_at de un cliente.
// vat_number no se toca desde el resolutor.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients SET email = $2, address = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, nullIfEmpty(client.Email), nullIfEmpty(client.Address), client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}
