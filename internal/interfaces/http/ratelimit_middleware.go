package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/infrastructure/ratelimit"
)

// RateLimitMiddleware limita las peticiones por IP de cliente usando la
// ventana deslizante del limitador. Responde 429 con cabeceras informativas
// cuando se excede el límite.
func RateLimitMiddleware(limiter ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := clientIP(c)

		res, err := limiter.Allow(c.Context(), key)
		if err != nil {
			// El limitador nunca debe tumbar el endpoint: ante fallo total se
			// deja pasar y se registra.
			log.Warn().Err(err).Str("ip", key).Msg("limitador de peticiones no disponible")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", res.Limit))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", res.ResetAt.Unix()))

		if !res.Allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas peticiones, inténtalo de nuevo en un momento",
			})
		}
		return c.Next()
	}
}

// clientIP resuelve la IP real del cliente: primer valor de X-Forwarded-For
// si existe (detrás de proxy), si no la IP de la conexión.
func clientIP(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx != -1 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	return c.IP()
}
