package postgres_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/voiceinvoice-api/internal/infrastructure/postgres"
)

func fastPolicy(retryable func(error) bool) postgres.RetryPolicy {
	return postgres.RetryPolicy{
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		Retryable:   retryable,
	}
}

func TestWithRetry_ExitoSinReintentos(t *testing.T) {
	calls := 0
	err := postgres.WithRetry(context.Background(), fastPolicy(postgres.IsConnectionError), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ReintentaTransitoriosHastaExito(t *testing.T) {
	calls := 0
	transient := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	err := postgres.WithRetry(context.Background(), fastPolicy(postgres.IsConnectionError), func() error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ErrorPermanenteNoSeReintenta(t *testing.T) {
	calls := 0
	permanent := errors.New("syntax error")
	err := postgres.WithRetry(context.Background(), fastPolicy(postgres.IsConnectionError), func() error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls, "un error no transitorio se devuelve de inmediato")
}

func TestWithRetry_AgotaIntentos(t *testing.T) {
	calls := 0
	always := func(error) bool { return true }
	err := postgres.WithRetry(context.Background(), fastPolicy(always), func() error {
		calls++
		return errors.New("sigue fallando")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ContextoCanceladoCortaLaEspera(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	always := func(error) bool { return true }
	policy := postgres.RetryPolicy{MaxAttempts: 5, Backoff: time.Hour, Retryable: always}
	err := postgres.WithRetry(ctx, policy, func() error {
		calls++
		return errors.New("transitorio")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "con el contexto cancelado no se espera el backoff")
}

func TestIsConnectionError_Clasificacion(t *testing.T) {
	assert.True(t, postgres.IsConnectionError(&net.OpError{Op: "read", Err: errors.New("reset")}),
		"los errores de red son transitorios")
	assert.True(t, postgres.IsConnectionError(&pgconn.PgError{Code: "08006"}),
		"la clase 08 de PostgreSQL es transitoria")
	assert.False(t, postgres.IsConnectionError(&pgconn.PgError{Code: "23505"}),
		"una violación de constraint nunca se reintenta")
	assert.False(t, postgres.IsConnectionError(errors.New("otro error")))
}
