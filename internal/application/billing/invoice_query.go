package billing

import (
	"fmt"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

// InvoiceQueryUseCase lecturas de facturas persistidas.
type InvoiceQueryUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

// NewInvoiceQueryUseCase construye el caso de uso.
func NewInvoiceQueryUseCase(invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{invoiceRepo: invoiceRepo, clientRepo: clientRepo}
}

// GetInvoice devuelve una factura con sus líneas.
func (uc *InvoiceQueryUseCase) GetInvoice(id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, fmt.Errorf("líneas de la factura: %w", err)
	}
	clientName := ""
	if client, err := uc.clientRepo.GetByID(inv.ClientID); err == nil && client != nil {
		clientName = client.Name
	}
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		ClientID:      inv.ClientID,
		ClientName:    clientName,
		Date:          inv.Date.Format("2006-01-02"),
		DueDate:       inv.DueDate.Format("2006-01-02"),
		Status:        inv.Status,
		TotalAmount:   inv.TotalAmount,
		Currency:      inv.Currency,
		PaymentLink:   inv.PaymentLink,
		PaymentStatus: inv.PaymentStatus,
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return resp, nil
}

// GetPaymentLink devuelve el enlace y estado de pago de una factura.
func (uc *InvoiceQueryUseCase) GetPaymentLink(id string) (*dto.PaymentLinkResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.PaymentLinkResponse{
		PaymentLink:   inv.PaymentLink,
		PaymentStatus: inv.PaymentStatus,
	}, nil
}
