package entity

import "time"

// Client representa un cliente facturable. El nombre actúa como clave natural
// para la resolución find-or-create (constraint único en clients.name).
type Client struct {
	ID        string
	Name      string
	Email     string // opcional; solo se sobrescribe con valores no vacíos
	Address   string // opcional; solo se sobrescribe con valores no vacíos
	VATNumber string // opcional; nunca lo toca el resolutor de clientes
	CreatedAt time.Time
	UpdatedAt time.Time
}
