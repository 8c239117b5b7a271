package postgres

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Decorador de reintento acotado para operaciones del store, parametrizado
// por las clases de error que se consideran transitorias. Independiente de la
// tecnología concreta: el clasificador decide qué se reintenta.

// RetryPolicy política de reintento para operaciones del store.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	// Retryable clasifica un error como transitorio (se reintenta) o
	// permanente (se devuelve de inmediato).
	Retryable func(error) bool
}

// DefaultRetryPolicy reintenta errores de conexión con un backoff corto.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     100 * time.Millisecond,
		Retryable:   IsConnectionError,
	}
}

// WithRetry ejecuta op reintentando los errores que la política clasifique
// como transitorios, hasta MaxAttempts. El contexto cancela la espera.
func WithRetry(ctx context.Context, policy RetryPolicy, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if policy.Retryable == nil || !policy.Retryable(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(policy.Backoff * time.Duration(attempt)):
		}
	}
	return lastErr
}

// IsConnectionError clasifica errores de red y de la clase 08 de PostgreSQL
// (connection exception) como transitorios.
func IsConnectionError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08"
	}
	return pgconn.SafeToRetry(err)
}
