package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	saveUC  *billing.SaveInvoiceUseCase
	queryUC *billing.InvoiceQueryUseCase
	pdfUC   *billing.PDFUseCase
	sendUC  *billing.SendEmailUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	saveUC *billing.SaveInvoiceUseCase,
	queryUC *billing.InvoiceQueryUseCase,
	pdfUC *billing.PDFUseCase,
	sendUC *billing.SendEmailUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{saveUC: saveUC, queryUC: queryUC, pdfUC: pdfUC, sendUC: sendUC}
}

// Save persiste un documento candidato como factura.
// POST /api/invoices
//
// Siempre responde con el sobre {success, invoiceId, invoiceNumber, error};
// los rechazos de validación van con 400 pero mismo sobre en el cuerpo.
func (h *InvoiceHandler) Save(c *fiber.Ctx) error {
	var in dto.CandidateInvoiceDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SaveInvoiceResult{
			Success: false,
			Error:   "cuerpo inválido",
		})
	}
	result := h.saveUC.Save(c.Context(), in)
	if !result.Success {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetByID obtiene una factura persistida con sus líneas.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	invoice, err := h.queryUC.GetInvoice(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoice)
}

// GetPaymentLink obtiene el enlace de pago de una factura (si existe).
// GET /api/invoices/:id/payment-link
func (h *InvoiceHandler) GetPaymentLink(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	link, err := h.queryUC.GetPaymentLink(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(link)
}

// GetPDF descarga la representación gráfica de la factura.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) GetPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// Send envía la factura por correo al destinatario indicado.
// POST /api/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.SendEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SendEmailResult{
			Success: false,
			Error:   "cuerpo inválido",
		})
	}
	result := h.sendUC.Send(c.Context(), id, in.Email)
	if !result.Success {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	return c.JSON(result)
}
