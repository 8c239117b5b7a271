package repository

import "github.com/jhoicas/voiceinvoice-api/internal/domain/entity"

// ClientWithCount cliente con su número de facturas (para el listado).
type ClientWithCount struct {
	Client       entity.Client
	InvoiceCount int
}

// ClientRepository define el puerto de persistencia para Client.
// GetByName usa el nombre como clave natural (match exacto); la tabla lleva
// un constraint único sobre name, por lo que Create puede devolver
// domain.ErrDuplicate ante una resolución concurrente del mismo nombre.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	GetByName(name string) (*entity.Client, error)
	// List devuelve una página de clientes (más recientes primero) con su
	// conteo de facturas, y el total de clientes para la paginación.
	List(limit, offset int) ([]ClientWithCount, int, error)
	Update(client *entity.Client) error
	Count() (int, error)
}
