// Package billing contiene la lógica pura de facturación: validación de
// campos, derivación numérica y formato del número de factura.
package billing

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
)

// Límites de validación.
const (
	MaxEmailLength       = 255
	MaxDescriptionLength = 500
	MaxNotesLength       = 2000
	MaxUserMessageLength = 5000
)

// maxAmount es el monto máximo aceptado para precios unitarios y totales.
var maxAmount = decimal.RequireFromString("999999999.99")

// maxQuantity es la cantidad máxima por línea.
var maxQuantity = decimal.NewFromInt(999999)

// maxTaxRate tasa de impuesto máxima (porcentaje).
var maxTaxRate = decimal.NewFromInt(100)

// emailRe valida la sintaxis de un email (sin resolución DNS).
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// dateRe exige el formato calendario ISO YYYY-MM-DD antes de parsear.
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FieldError es un fallo de validación acotado a un campo.
// Cualquier FieldError aborta el guardado completo; no hay commits parciales.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// ValidateEmail normaliza (recorta y pasa a minúsculas) y valida un email.
// Devuelve el valor normalizado o un FieldError.
func ValidateEmail(field, email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", fieldErr(field, "el email es requerido")
	}
	if utf8.RuneCountInString(normalized) > MaxEmailLength {
		return "", fieldErr(field, "el email es demasiado largo")
	}
	if !emailRe.MatchString(normalized) {
		return "", fieldErr(field, "email inválido")
	}
	return normalized, nil
}

// ValidateAmount valida un monto: > 0 y ≤ 999.999.999,99.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fieldErr(field, "el monto debe ser positivo")
	}
	if amount.GreaterThan(maxAmount) {
		return fieldErr(field, "el monto es demasiado alto")
	}
	return nil
}

// ValidateTaxRate valida la tasa de impuesto: en [0, 100].
func ValidateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fieldErr("taxRate", "la tasa de impuesto no puede ser negativa")
	}
	if rate.GreaterThan(maxTaxRate) {
		return fieldErr("taxRate", "la tasa de impuesto no puede superar 100%")
	}
	return nil
}

// ValidateCurrency valida la moneda: exactamente "EUR" o "USD".
func ValidateCurrency(currency string) error {
	if currency != entity.CurrencyEUR && currency != entity.CurrencyUSD {
		return fieldErr("currency", "la moneda debe ser EUR o USD")
	}
	return nil
}

// LineItem es la vista mínima de una línea candidata para validación y cálculo.
type LineItem struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// ValidateLineItem valida una línea candidata: id UUID, descripción 1–500,
// cantidad > 0 y ≤ 999999, precio unitario según regla de montos.
func ValidateLineItem(item LineItem) error {
	if _, err := uuid.Parse(item.ID); err != nil {
		return fieldErr("items.id", "id de ítem inválido")
	}
	desc := strings.TrimSpace(item.Description)
	if desc == "" {
		return fieldErr("items.description", "la descripción es requerida")
	}
	// Límite en caracteres, no en bytes: las descripciones acentuadas no
	// deben penalizarse por su codificación UTF-8.
	if utf8.RuneCountInString(item.Description) > MaxDescriptionLength {
		return fieldErr("items.description", "la descripción es demasiado larga")
	}
	if !item.Quantity.IsPositive() {
		return fieldErr("items.quantity", "la cantidad debe ser positiva")
	}
	if item.Quantity.GreaterThan(maxQuantity) {
		return fieldErr("items.quantity", "la cantidad es demasiado alta")
	}
	return ValidateAmount("items.unitPrice", item.UnitPrice)
}

// ParseDate parsea una fecha calendario ISO (YYYY-MM-DD) a una fecha real.
func ParseDate(field, value string) (time.Time, error) {
	if !dateRe.MatchString(value) {
		return time.Time{}, fieldErr(field, "formato de fecha inválido (YYYY-MM-DD)")
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fieldErr(field, "fecha inválida")
	}
	return t, nil
}

// ValidateUserMessage valida el mensaje libre enviado a la frontera de IA.
func ValidateUserMessage(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", fieldErr("message", "el mensaje no puede estar vacío")
	}
	if utf8.RuneCountInString(trimmed) > MaxUserMessageLength {
		return "", fieldErr("message", "el mensaje es demasiado largo")
	}
	return trimmed, nil
}
