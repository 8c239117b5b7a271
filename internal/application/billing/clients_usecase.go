package billing

import (
	"fmt"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

// ClientUseCase listados y detalle de clientes.
type ClientUseCase struct {
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository, invoiceRepo repository.InvoiceRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, invoiceRepo: invoiceRepo}
}

// List devuelve una página de clientes (más recientes primero) con metadatos
// de paginación. Limit queda acotado a 100.
func (uc *ClientUseCase) List(page dto.PageRequest) (*dto.ClientListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.clientRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	clients := make([]dto.ClientResponse, 0, len(list))
	for _, row := range list {
		clients = append(clients, dto.ClientResponse{
			ID:           row.Client.ID,
			Name:         row.Client.Name,
			Email:        row.Client.Email,
			Address:      row.Client.Address,
			VATNumber:    row.Client.VATNumber,
			CreatedAt:    row.Client.CreatedAt.Format("2006-01-02"),
			InvoiceCount: row.InvoiceCount,
		})
	}
	return &dto.ClientListResponse{
		Clients: clients,
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.Offset+len(clients) < total,
	}, nil
}

// GetByID devuelve el detalle de un cliente con su historial de facturas
// (más recientes primero).
func (uc *ClientUseCase) GetByID(id string) (*dto.ClientDetailResponse, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	invoices, err := uc.invoiceRepo.ListByClient(id)
	if err != nil {
		return nil, fmt.Errorf("facturas del cliente: %w", err)
	}
	out := &dto.ClientDetailResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Address:   client.Address,
		VATNumber: client.VATNumber,
		CreatedAt: client.CreatedAt.Format("2006-01-02"),
		Invoices:  make([]dto.ClientInvoiceDTO, 0, len(invoices)),
	}
	for _, inv := range invoices {
		out.Invoices = append(out.Invoices, dto.ClientInvoiceDTO{
			ID:        inv.ID,
			Number:    inv.Number,
			Date:      inv.Date.Format("2006-01-02"),
			DueDate:   inv.DueDate.Format("2006-01-02"),
			Amount:    inv.TotalAmount,
			Currency:  inv.Currency,
			Status:    inv.Status,
			CreatedAt: inv.CreatedAt.Format("2006-01-02"),
		})
	}
	return out, nil
}
