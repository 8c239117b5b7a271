package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/voiceinvoice-api/internal/application/analytics"
	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/application/usecase"
	"github.com/jhoicas/voiceinvoice-api/internal/infrastructure/ratelimit"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaveInvoice   *billing.SaveInvoiceUseCase
	InvoiceQuery  *billing.InvoiceQueryUseCase
	InvoicePDF    *billing.PDFUseCase
	SendEmail     *billing.SendEmailUseCase
	ClientUC      *billing.ClientUseCase
	DashboardUC   *analytics.DashboardUseCase
	AIUC          *usecase.AIUseCase
	GenerateLimit ratelimit.Limiter
	TranscribeLim ratelimit.Limiter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Facturas
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.SaveInvoice, deps.InvoiceQuery, deps.InvoicePDF, deps.SendEmail)
	invoices.Post("/", invoiceHandler.Save)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/payment-link", invoiceHandler.GetPaymentLink)
	invoices.Get("/:id/pdf", invoiceHandler.GetPDF)
	invoices.Post("/:id/send", invoiceHandler.Send)

	// Clientes
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.GetStats)

	// IA (limitado por IP)
	ai := api.Group("/ai")
	aiHandler := NewAIHandler(deps.AIUC)
	ai.Post("/generate", RateLimitMiddleware(deps.GenerateLimit), aiHandler.Generate)
	ai.Post("/transcribe", RateLimitMiddleware(deps.TranscribeLim), aiHandler.Transcribe)
}
