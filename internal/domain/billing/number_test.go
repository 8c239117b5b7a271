package billing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/voiceinvoice-api/internal/domain/billing"
)

func TestNewInvoiceNumber_CumpleElPatron(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		number := billing.NewInvoiceNumber(now)
		assert.Regexp(t, billing.NumberPattern, number)
	}
}

func TestNewInvoiceNumber_SegmentoDeFecha(t *testing.T) {
	now := time.Date(2026, 1, 5, 23, 59, 0, 0, time.UTC)
	number := billing.NewInvoiceNumber(now)
	assert.True(t, strings.HasPrefix(number, "INV-20260105-"),
		"el segmento de fecha debe ser la fecha de generación: %s", number)
}

// TestNewInvoiceNumber_SufijoVariable: el sufijo es aleatorio, así que sobre
// un lote razonable debe aparecer más de un valor distinto.
func TestNewInvoiceNumber_SufijoVariable(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		seen[billing.NewInvoiceNumber(now)] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "200 números no pueden ser todos iguales")
}
