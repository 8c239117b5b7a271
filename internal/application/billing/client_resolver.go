package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

// ClientResolver resuelve un cliente por nombre: lo busca por match exacto y
// lo crea si no existe, o fusiona los campos opcionales si ya existe.
type ClientResolver struct {
	repo repository.ClientRepository
}

// NewClientResolver construye el resolutor.
func NewClientResolver(repo repository.ClientRepository) *ClientResolver {
	return &ClientResolver{repo: repo}
}

// Resolve devuelve el cliente persistido para la parte indicada.
//
// Fusión: address/email solo se sobrescriben con valores entrantes no vacíos;
// nunca se anula dato existente; vat_number no se toca aquí. A lo sumo una
// escritura (create o update).
//
// La tabla clients lleva constraint único sobre name: si dos callers crean el
// mismo nombre a la vez, el perdedor recibe ErrDuplicate y re-lee el cliente
// ya creado en lugar de duplicarlo.
func (r *ClientResolver) Resolve(in dto.PartyDTO) (*entity.Client, error) {
	existing, err := r.repo.GetByName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("buscar cliente: %w", err)
	}

	if existing == nil {
		now := time.Now()
		client := &entity.Client{
			ID:        uuid.New().String(),
			Name:      in.Name,
			Email:     in.Email,
			Address:   in.Address,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := r.repo.Create(client)
		if err == nil {
			return client, nil
		}
		if errors.Is(err, domain.ErrDuplicate) {
			// Perdimos la carrera: otro caller creó el mismo nombre primero.
			winner, ferr := r.repo.GetByName(in.Name)
			if ferr != nil || winner == nil {
				return nil, fmt.Errorf("releer cliente tras duplicado: %w", err)
			}
			existing = winner
		} else {
			return nil, fmt.Errorf("crear cliente: %w", err)
		}
	}

	changed := false
	if in.Email != "" && in.Email != existing.Email {
		existing.Email = in.Email
		changed = true
	}
	if in.Address != "" && in.Address != existing.Address {
		existing.Address = in.Address
		changed = true
	}
	if changed {
		existing.UpdatedAt = time.Now()
		if err := r.repo.Update(existing); err != nil {
			return nil, fmt.Errorf("actualizar cliente: %w", err)
		}
	}
	return existing, nil
}
