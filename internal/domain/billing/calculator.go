package billing

import "github.com/shopspring/decimal"

// LineTotal devuelve quantity × unitPrice de una línea.
func LineTotal(item LineItem) decimal.Decimal {
	return item.Quantity.Mul(item.UnitPrice)
}

// Subtotal suma los totales de línea. Lista vacía ⇒ cero.
func Subtotal(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item))
	}
	return subtotal
}

// Tax devuelve subtotal × rate / 100.
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Div(decimal.NewFromInt(100))
}

// Total devuelve subtotal + tax.
func Total(subtotal, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax)
}

// StoredTotal redondea el total a 2 decimales para persistirlo.
// El invariante es totalAmount == round(subtotal + tax) al momento del
// guardado; después nunca se recalcula desde los ítems persistidos.
func StoredTotal(subtotal, tax decimal.Decimal) decimal.Decimal {
	return Total(subtotal, tax).Round(2)
}
