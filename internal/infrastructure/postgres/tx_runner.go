package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool  *pgxpool.Pool
	retry RetryPolicy
}

// NewTxRunner construye el runner con el pool. El Begin se reintenta ante
// errores de conexión transitorios según la política por defecto.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, retry: DefaultRetryPolicy()}
}

// RunInvoice inicia una transacción, ejecuta fn con un repositorio de
// facturas atado a la tx y hace Commit o Rollback. La cabecera y las líneas
// de la factura se escriben juntas o no se escribe nada.
func (r *TxRunner) RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	var tx pgx.Tx
	err := WithRetry(ctx, r.retry, func() error {
		var beginErr error
		tx, beginErr = r.pool.Begin(ctx)
		return beginErr
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
