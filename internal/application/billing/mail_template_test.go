package billing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
)

func mailInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:          "inv-1",
		Number:      "INV-20260829-A1B2",
		Date:        time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC),
		TotalAmount: dec("1200"),
		Currency:    "EUR",
	}
}

func TestRenderInvoiceMail_ContenidoBasico(t *testing.T) {
	subject, html, err := billing.RenderInvoiceMail(mailInvoice(), "Acme SL")
	require.NoError(t, err)

	assert.Equal(t, "Factura disponible: INV-20260829-A1B2", subject)
	assert.Contains(t, html, "INV-20260829-A1B2")
	assert.Contains(t, html, "Acme SL")
	assert.Contains(t, html, "2026-08-29")
	assert.Contains(t, html, "2026-09-28")
}

func TestRenderInvoiceMail_EnlaceDePagoOpcional(t *testing.T) {
	inv := mailInvoice()
	_, html, err := billing.RenderInvoiceMail(inv, "")
	require.NoError(t, err)
	assert.NotContains(t, html, "Pagar ahora", "sin enlace no debe aparecer el botón de pago")

	inv.PaymentLink = "https://pay.example.com/abc"
	_, html, err = billing.RenderInvoiceMail(inv, "")
	require.NoError(t, err)
	assert.Contains(t, html, "Pagar ahora")
	assert.Contains(t, html, "https://pay.example.com/abc")
}

// TestRenderInvoiceMail_EscapaHTML: el nombre del cliente viene del usuario y
// debe llegar escapado al cuerpo del correo.
func TestRenderInvoiceMail_EscapaHTML(t *testing.T) {
	_, html, err := billing.RenderInvoiceMail(mailInvoice(), `<script>alert("x")</script>`)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>", "el HTML del nombre debe escaparse")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestFormatAmount_MonedasConocidas(t *testing.T) {
	assert.True(t, strings.Contains(billing.FormatAmount(dec("1200"), "EUR"), "EUR") ||
		strings.Contains(billing.FormatAmount(dec("1200"), "EUR"), "€"),
		"el formato EUR debe llevar símbolo o código")
}

func TestFormatAmount_MonedaDesconocidaUsaFallback(t *testing.T) {
	got := billing.FormatAmount(dec("99.9"), "XXX-NO-ISO")
	assert.Equal(t, "99.90 XXX-NO-ISO", got)
}
