package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de una factura persistida.
// Es una copia inmutable del ítem candidato tomada al guardar; ediciones
// posteriores del documento candidato no la afectan.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}
