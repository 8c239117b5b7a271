package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/voiceinvoice-api/internal/infrastructure/ratelimit"
)

func TestMemoryLimiter_PermiteHastaElLimite(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(3, time.Minute)

	for i := 1; i <= 3; i++ {
		res, err := limiter.Allow(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "la petición %d debe pasar", i)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 3-i, res.Remaining)
	}

	res, err := limiter.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed, "la cuarta petición debe rechazarse")
	assert.Equal(t, 0, res.Remaining)
}

func TestMemoryLimiter_ClavesIndependientes(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute)

	res, _ := limiter.Allow(context.Background(), "1.1.1.1")
	assert.True(t, res.Allowed)
	res, _ = limiter.Allow(context.Background(), "1.1.1.1")
	assert.False(t, res.Allowed)

	res, _ = limiter.Allow(context.Background(), "2.2.2.2")
	assert.True(t, res.Allowed, "otra IP no comparte contador")
}

func TestMemoryLimiter_VentanaDeslizanteExpira(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(1, 30*time.Millisecond)

	res, _ := limiter.Allow(context.Background(), "ip")
	assert.True(t, res.Allowed)
	res, _ = limiter.Allow(context.Background(), "ip")
	assert.False(t, res.Allowed)

	time.Sleep(50 * time.Millisecond)

	res, _ = limiter.Allow(context.Background(), "ip")
	assert.True(t, res.Allowed, "pasada la ventana el contador debe liberarse")
}

func TestMemoryLimiter_RechazoTambienCuenta(t *testing.T) {
	// Los intentos rechazados siguen contando contra la ventana: un cliente
	// que martillea no se libera antes.
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute)

	for i := 0; i < 10; i++ {
		_, err := limiter.Allow(context.Background(), "ip")
		require.NoError(t, err)
	}
	res, err := limiter.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

// ── Fallback ──────────────────────────────────────────────────────────────────

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("redis caído")
}

func TestFallbackLimiter_DegradaAlSecundario(t *testing.T) {
	memory := ratelimit.NewMemoryLimiter(1, time.Minute)
	limiter := ratelimit.NewFallbackLimiter(failingLimiter{}, memory)

	res, err := limiter.Allow(context.Background(), "ip")
	require.NoError(t, err, "el fallo del primario no sale al caller")
	assert.True(t, res.Allowed)

	res, err = limiter.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed, "el secundario mantiene su propio contador")
}

type countingLimiter struct {
	calls int
}

func (c *countingLimiter) Allow(context.Context, string) (ratelimit.Result, error) {
	c.calls++
	return ratelimit.Result{Allowed: true, Limit: 5, Remaining: 4}, nil
}

func TestFallbackLimiter_PrefiereElPrimario(t *testing.T) {
	primary := &countingLimiter{}
	limiter := ratelimit.NewFallbackLimiter(primary, ratelimit.NewMemoryLimiter(1, time.Minute))

	res, err := limiter.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, primary.calls)
}
