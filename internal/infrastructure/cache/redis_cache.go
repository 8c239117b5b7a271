package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/voiceinvoice-api/internal/application/analytics"
	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
)

const (
	statsKey = "dashboard:stats"
	statsTTL = 60 * time.Second
)

var (
	_ analytics.StatsCache     = (*RedisCache)(nil)
	_ billing.CacheInvalidator = (*RedisCache)(nil)
)

// RedisCache cachea las estadísticas del dashboard con TTL corto. La caché es
// puramente un acelerador: cualquier fallo de Redis se registra y se sigue
// sirviendo desde Postgres.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache construye la caché sobre un cliente ya conectado.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// GetStats devuelve las estadísticas cacheadas, ok=false si no hay entrada.
func (c *RedisCache) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, bool) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("error leyendo dashboard:stats de Redis")
		}
		return nil, false
	}
	var stats dto.DashboardStatsDTO
	if err := json.Unmarshal(raw, &stats); err != nil {
		log.Warn().Err(err).Msg("entrada corrupta en dashboard:stats, se descarta")
		_ = c.client.Del(ctx, statsKey).Err()
		return nil, false
	}
	return &stats, true
}

// SetStats guarda las estadísticas con TTL.
func (c *RedisCache) SetStats(ctx context.Context, stats *dto.DashboardStatsDTO) {
	raw, err := json.Marshal(stats)
	if err != nil {
		log.Warn().Err(err).Msg("error serializando dashboard:stats")
		return
	}
	if err := c.client.Set(ctx, statsKey, raw, statsTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("error escribiendo dashboard:stats en Redis")
	}
}

// InvalidateViews borra las vistas cacheadas tras una escritura de factura o
// cliente.
func (c *RedisCache) InvalidateViews(ctx context.Context) {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		log.Warn().Err(err).Msg("error invalidando dashboard:stats en Redis")
	}
}

// NoopCache implementación nula para ejecutar sin Redis.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) GetStats(context.Context) (*dto.DashboardStatsDTO, bool) { return nil, false }
func (NoopCache) SetStats(context.Context, *dto.DashboardStatsDTO)       {}
func (NoopCache) InvalidateViews(context.Context)                        {}
