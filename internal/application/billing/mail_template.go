package billing

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
)

// invoiceMailTmpl plantilla HTML de la notificación de factura.
// html/template escapa todos los campos según contexto (texto, atributo,
// URL), que es el requisito de protección contra inyección del envío.
var invoiceMailTmpl = template.Must(template.New("invoice_mail").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Factura {{.Number}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f8f9fa; padding: 30px; border-radius: 8px;">
    <h1 style="color: #2563eb; margin-top: 0;">Su factura está lista</h1>
    <p>Hola{{if .ClientName}} {{.ClientName}}{{end}},</p>
    <p>Le compartimos su factura <strong>{{.Number}}</strong> por un monto de <strong>{{.Amount}}</strong>.</p>
    <div style="background-color: white; padding: 20px; border-radius: 4px; margin: 20px 0;">
      <p style="margin: 5px 0;"><strong>Número de factura:</strong> {{.Number}}</p>
      <p style="margin: 5px 0;"><strong>Fecha:</strong> {{.Date}}</p>
      <p style="margin: 5px 0;"><strong>Vencimiento:</strong> {{.DueDate}}</p>
      <p style="margin: 5px 0;"><strong>Monto:</strong> {{.Amount}}</p>
    </div>
    {{if .PaymentLink}}
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.PaymentLink}}" style="display: inline-block; background-color: #2563eb; color: white; padding: 14px 28px; text-decoration: none; border-radius: 6px; font-weight: 600;">Pagar ahora</a>
    </div>
    <p style="font-size: 14px; color: #666; text-align: center;">O copie este enlace: <a href="{{.PaymentLink}}">{{.PaymentLink}}</a></p>
    {{end}}
    <p style="margin-top: 30px;">Cordialmente,<br><strong>El equipo de VoiceInvoice</strong></p>
  </div>
</body>
</html>`))

type invoiceMailData struct {
	Number      string
	ClientName  string
	Date        string
	DueDate     string
	Amount      string
	PaymentLink string
}

// RenderInvoiceMail renderiza asunto y cuerpo HTML de la notificación.
func RenderInvoiceMail(inv *entity.Invoice, clientName string) (subject, html string, err error) {
	data := invoiceMailData{
		Number:      inv.Number,
		ClientName:  clientName,
		Date:        inv.Date.Format("2006-01-02"),
		DueDate:     inv.DueDate.Format("2006-01-02"),
		Amount:      FormatAmount(inv.TotalAmount, inv.Currency),
		PaymentLink: inv.PaymentLink,
	}
	var buf bytes.Buffer
	if err := invoiceMailTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("renderizar correo: %w", err)
	}
	return fmt.Sprintf("Factura disponible: %s", inv.Number), buf.String(), nil
}

// FormatAmount formatea un monto en su moneda para mostrarlo (correo, PDF).
func FormatAmount(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2) + " " + code
	}
	value, _ := amount.Round(2).Float64()
	p := message.NewPrinter(language.EuropeanSpanish)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(value)))
}
