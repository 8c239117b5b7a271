package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Result veredicto de una petición contra la ventana deslizante.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt momento en que expira la entrada más vieja de la ventana.
	ResetAt time.Time
}

// Limiter limita peticiones por clave (normalmente la IP del cliente) dentro
// de una ventana deslizante.
type Limiter interface {
	// Allow registra un intento bajo key y decide si pasa. El intento cuenta
	// contra la ventana aunque sea rechazado.
	Allow(ctx context.Context, key string) (Result, error)
}

// ── Implementación Redis ──────────────────────────────────────────────────────

var _ Limiter = (*RedisLimiter)(nil)

// RedisLimiter ventana deslizante sobre un sorted set por clave: cada petición
// es un miembro con score = timestamp en milisegundos, las entradas fuera de
// la ventana se purgan antes de contar.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter construye el limitador. prefix separa los contadores de
// cada endpoint en Redis.
func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	redisKey := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)
	windowStart := now.Add(-l.window).UnixMilli()
	member := fmt.Sprintf("%d-%d", now.UnixNano(), l.limit)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("ratelimit: pipeline Redis: %w", err)
	}

	count := int(countCmd.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   now.Add(l.window),
	}, nil
}

// ── Implementación en memoria ─────────────────────────────────────────────────

var _ Limiter = (*MemoryLimiter)(nil)

// MemoryLimiter fallback en proceso para entornos sin Redis. Los contadores
// no sobreviven reinicios ni se comparten entre réplicas.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	l.hits[key] = kept

	count := len(kept)
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   kept[0].Add(l.window),
	}, nil
}

// ── Fallback compuesto ────────────────────────────────────────────────────────

var _ Limiter = (*FallbackLimiter)(nil)

// FallbackLimiter intenta Redis y degrada al contador en memoria si Redis
// falla, de modo que un corte de Redis no bloquee el tráfico legítimo.
type FallbackLimiter struct {
	primary  Limiter
	fallback Limiter
}

func NewFallbackLimiter(primary, fallback Limiter) *FallbackLimiter {
	return &FallbackLimiter{primary: primary, fallback: fallback}
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string) (Result, error) {
	res, err := l.primary.Allow(ctx, key)
	if err == nil {
		return res, nil
	}
	log.Warn().Err(err).Msg("limitador Redis no disponible, usando contador en memoria")
	return l.fallback.Allow(ctx, key)
}
