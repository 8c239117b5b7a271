package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura para el dashboard.
// Las consultas pasan por el decorador de reintento: un corte transitorio de
// conexión no debe tumbar el dashboard.
type StatsRepo struct {
	pool  *pgxpool.Pool
	retry RetryPolicy
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool, retry: DefaultRetryPolicy()}
}

// GetRevenueTotals devuelve la suma de total_amount de TODAS las facturas y
// su conteo. COALESCE garantiza cero cuando no hay filas.
func (r *StatsRepo) GetRevenueTotals(ctx context.Context) (decimal.Decimal, int, error) {
	const query = `
		SELECT COALESCE(SUM(total_amount), 0) AS total_revenue,
		       COUNT(*)                       AS invoice_count
		FROM invoices`
	var revenue decimal.Decimal
	var count int
	err := WithRetry(ctx, r.retry, func() error {
		return r.pool.QueryRow(ctx, query).Scan(&revenue, &count)
	})
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("stats.GetRevenueTotals: %w", err)
	}
	return revenue, count, nil
}

// CountClients devuelve el número total de clientes.
func (r *StatsRepo) CountClients(ctx context.Context) (int, error) {
	var count int
	err := WithRetry(ctx, r.retry, func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("stats.CountClients: %w", err)
	}
	return count, nil
}

// GetRecentInvoices devuelve las `limit` facturas más recientes con el nombre
// del cliente, de más nueva a más vieja.
func (r *StatsRepo) GetRecentInvoices(ctx context.Context, limit int) ([]repository.RecentInvoice, error) {
	const query = `
		SELECT i.id, i.number, i.date, i.total_amount, i.currency, i.status,
		       COALESCE(c.name, 'Sin cliente') AS client_name
		FROM invoices i
		LEFT JOIN clients c ON c.id = i.client_id
		ORDER BY i.created_at DESC
		LIMIT $1`
	var results []repository.RecentInvoice
	err := WithRetry(ctx, r.retry, func() error {
		rows, err := r.pool.Query(ctx, query, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		results = results[:0]
		for rows.Next() {
			var row repository.RecentInvoice
			if err := rows.Scan(&row.ID, &row.Number, &row.Date, &row.Amount, &row.Currency, &row.Status, &row.ClientName); err != nil {
				return fmt.Errorf("scan recent invoice: %w", err)
			}
			results = append(results, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("stats.GetRecentInvoices: %w", err)
	}
	return results, nil
}
