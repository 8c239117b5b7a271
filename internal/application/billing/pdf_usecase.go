package billing

import (
	"fmt"

	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

// InvoicePDFData datos ya resueltos para la representación gráfica.
// El total es el persistido (autoritativo); no se recalcula desde las líneas.
type InvoicePDFData struct {
	Invoice    *entity.Invoice
	Client     *entity.Client
	Items      []*entity.InvoiceItem
	TotalLabel string // monto formateado en su moneda
}

// InvoicePDFGenerator puerto de salida para el generador de PDF.
type InvoicePDFGenerator interface {
	Generate(data InvoicePDFData) ([]byte, error)
}

// PDFUseCase genera la representación gráfica (PDF) de una factura guardada.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, clientRepo: clientRepo, generator: generator}
}

// DownloadInvoicePDF carga la factura con sus líneas y cliente y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: líneas de la factura: %w", err)
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	pdfBytes, err = uc.generator.Generate(InvoicePDFData{
		Invoice:    inv,
		Client:     client,
		Items:      items,
		TotalLabel: FormatAmount(inv.TotalAmount, inv.Currency),
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", inv.Number), nil
}
