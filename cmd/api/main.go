package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/voiceinvoice-api/internal/application/analytics"
	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/application/usecase"
	infraai "github.com/jhoicas/voiceinvoice-api/internal/infrastructure/ai"
	infracache "github.com/jhoicas/voiceinvoice-api/internal/infrastructure/cache"
	inframail "github.com/jhoicas/voiceinvoice-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/voiceinvoice-api/internal/infrastructure/pdf"
	"github.com/jhoicas/voiceinvoice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/voiceinvoice-api/internal/infrastructure/ratelimit"
	infrastripe "github.com/jhoicas/voiceinvoice-api/internal/infrastructure/stripe"
	httpRouter "github.com/jhoicas/voiceinvoice-api/internal/interfaces/http"
	"github.com/jhoicas/voiceinvoice-api/pkg/config"
	"github.com/jhoicas/voiceinvoice-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Redis es opcional: sin él la caché es nula y el limitador vive en memoria.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible al arrancar, se seguirá intentando")
		}
		defer redisClient.Close()
	}

	var statsCache appanalytics.StatsCache
	var viewCache billing.CacheInvalidator
	if redisClient != nil {
		redisCache := infracache.NewRedisCache(redisClient)
		statsCache = redisCache
		viewCache = redisCache
	}

	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Proveedor de pagos: best-effort, la factura se guarda con o sin enlace.
	var payments billing.PaymentLinkProvider
	if cfg.Stripe.SecretKey != "" {
		payments = infrastripe.NewClient(cfg.Stripe.SecretKey)
	}

	resolver := billing.NewClientResolver(clientRepo)
	saveInvoiceUC := billing.NewSaveInvoiceUseCase(txRunner, resolver, invoiceRepo, payments, viewCache)
	invoiceQueryUC := billing.NewInvoiceQueryUseCase(invoiceRepo, clientRepo)
	clientUC := billing.NewClientUseCase(clientRepo, invoiceRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(statsRepo, statsCache)

	mailer := inframail.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From)
	sendEmailUC := billing.NewSendEmailUseCase(invoiceRepo, clientRepo, mailer, viewCache)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, clientRepo, pdfGenerator)

	anthropicSvc := infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	whisperSvc := infraai.NewWhisperService(cfg.AI.OpenAIAPIKey)
	aiUC := usecase.NewAIUseCase(anthropicSvc, whisperSvc)

	generateLimiter := newLimiter(redisClient, "generate", cfg.RateLimit.GeneratePerMinute)
	transcribeLimiter := newLimiter(redisClient, "transcribe", cfg.RateLimit.TranscribePerMinute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    30 * 1024 * 1024, // margen sobre los 25MB de audio
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "VoiceInvoice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaveInvoice:   saveInvoiceUC,
		InvoiceQuery:  invoiceQueryUC,
		InvoicePDF:    invoicePDFUC,
		SendEmail:     sendEmailUC,
		ClientUC:      clientUC,
		DashboardUC:   dashboardUC,
		AIUC:          aiUC,
		GenerateLimit: generateLimiter,
		TranscribeLim: transcribeLimiter,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newLimiter arma el limitador por endpoint: Redis con fallback en memoria si
// hay Redis, solo memoria si no.
func newLimiter(client *redis.Client, prefix string, perMinute int) ratelimit.Limiter {
	memory := ratelimit.NewMemoryLimiter(perMinute, time.Minute)
	if client == nil {
		return memory
	}
	primary := ratelimit.NewRedisLimiter(client, prefix, perMinute, time.Minute)
	return ratelimit.NewFallbackLimiter(primary, memory)
}
