package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	domainbilling "github.com/jhoicas/voiceinvoice-api/internal/domain/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

const (
	// maxNumberAttempts intentos máximos de asignación de número único.
	maxNumberAttempts = 10
	// paymentLinkTimeout tope para la llamada al proveedor de enlaces de pago.
	paymentLinkTimeout = 10 * time.Second
)

// Mensajes del sobre de resultado (contrato con el caller).
const (
	msgInvalidDates = "fechas inválidas"
	msgClientName   = "el nombre del cliente es requerido"
	msgInvalidTotal = "total inválido"
	msgSaveFailed   = "error al guardar la factura"
)

// SaveInvoiceUseCase orquesta el guardado de un documento candidato:
// Validador → Calculadora → Resolutor de cliente → Generador de número →
// enlace de pago (best-effort) → escritura atómica de factura + líneas.
//
// Todos los fallos se recuperan aquí y se traducen al sobre de resultado;
// nunca se propaga un error ni un panic al caller.
type SaveInvoiceUseCase struct {
	txRunner    TxRunner
	resolver    *ClientResolver
	invoiceRepo repository.InvoiceRepository
	payments    PaymentLinkProvider // nil = sin proveedor configurado
	cache       CacheInvalidator    // nil = sin invalidación
	now         func() time.Time
}

// NewSaveInvoiceUseCase construye el caso de uso. payments y cache pueden ser
// nil (proveedor ausente / sin cache).
func NewSaveInvoiceUseCase(
	txRunner TxRunner,
	resolver *ClientResolver,
	invoiceRepo repository.InvoiceRepository,
	payments PaymentLinkProvider,
	cache CacheInvalidator,
) *SaveInvoiceUseCase {
	return &SaveInvoiceUseCase{
		txRunner:    txRunner,
		resolver:    resolver,
		invoiceRepo: invoiceRepo,
		payments:    payments,
		cache:       cache,
		now:         time.Now,
	}
}

// Save valida, deriva totales y persiste el candidato como una unidad
// consistente. Aborta en el primer fallo; ninguna escritura ocurre antes de
// que toda la validación haya pasado.
func (uc *SaveInvoiceUseCase) Save(ctx context.Context, in dto.CandidateInvoiceDTO) (result *dto.SaveInvoiceResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("guardar factura: panic recuperado")
			result = failResult(msgSaveFailed)
		}
	}()

	// 1. Fechas: ambas deben ser fechas calendario reales.
	date, errDate := domainbilling.ParseDate("date", in.Date)
	dueDate, errDue := domainbilling.ParseDate("dueDate", in.DueDate)
	if errDate != nil || errDue != nil {
		return failResult(msgInvalidDates)
	}

	// 2. Nombre del cliente.
	clientName := strings.TrimSpace(in.Client.Name)
	if clientName == "" {
		return failResult(msgClientName)
	}
	in.Client.Name = clientName

	// 3. Líneas, tasa de impuesto, moneda y email del cliente (si viene).
	items := make([]domainbilling.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		item := domainbilling.LineItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
		if err := domainbilling.ValidateLineItem(item); err != nil {
			return failResult(err.Error())
		}
		items = append(items, item)
	}
	if err := domainbilling.ValidateTaxRate(in.TaxRate); err != nil {
		return failResult(err.Error())
	}
	if err := domainbilling.ValidateCurrency(in.Currency); err != nil {
		return failResult(err.Error())
	}
	if in.Client.Email != "" {
		normalized, err := domainbilling.ValidateEmail("client.email", in.Client.Email)
		if err != nil {
			return failResult(err.Error())
		}
		in.Client.Email = normalized
	}

	// 4. Derivación numérica. El total agregado pasa por la regla de montos
	// para atajar entradas que validan campo a campo pero desbordan en conjunto.
	subtotal := domainbilling.Subtotal(items)
	tax := domainbilling.Tax(subtotal, in.TaxRate)
	totalAmount := domainbilling.StoredTotal(subtotal, tax)
	if err := domainbilling.ValidateAmount("total", totalAmount); err != nil {
		return failResult(msgInvalidTotal)
	}

	// 5. Resolver cliente (find-or-create/merge por nombre).
	client, err := uc.resolver.Resolve(in.Client)
	if err != nil {
		log.Error().Err(err).Str("client", clientName).Msg("guardar factura: resolver cliente")
		return failResult(msgSaveFailed)
	}

	// 7. Mapear estado candidato → persistido.
	status := entity.InvoiceStatusDraft
	if in.Status == dto.CandidateStatusFinalized {
		status = entity.InvoiceStatusSent
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		ClientID:      client.ID,
		Date:          date,
		DueDate:       dueDate,
		Status:        status,
		TotalAmount:   totalAmount,
		Currency:      in.Currency,
		PaymentStatus: entity.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 6+9. Generación optimista del número con reintento acotado. El chequeo
	// previo evita la mayoría de colisiones; la defensa final es el constraint
	// único de invoices.number, cuya violación (ErrDuplicate) redibuja el sufijo.
	linkRequested := false
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number := domainbilling.NewInvoiceNumber(uc.now())
		existing, err := uc.invoiceRepo.GetByNumber(number)
		if err != nil {
			log.Error().Err(err).Msg("guardar factura: verificar número")
			return failResult(msgSaveFailed)
		}
		if existing != nil {
			continue
		}
		inv.Number = number

		// 8. Enlace de pago best-effort, una sola vez, con timeout propio. Un
		// fallo del proveedor se registra y la factura se guarda sin enlace.
		if !linkRequested {
			linkRequested = true
			uc.attachPaymentLink(ctx, inv, client)
		}

		// 9. Escritura atómica: cabecera + líneas, todo o nada.
		err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
			if err := invoiceRepo.Create(inv); err != nil {
				return err
			}
			for _, item := range items {
				snapshot := &entity.InvoiceItem{
					ID:          uuid.New().String(),
					InvoiceID:   inv.ID,
					Description: item.Description,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
				}
				if err := invoiceRepo.CreateItem(snapshot); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			// 10. Invalidar vistas cacheadas solo tras el éxito.
			if uc.cache != nil {
				uc.cache.InvalidateViews(ctx)
			}
			return &dto.SaveInvoiceResult{
				Success:       true,
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.Number,
			}
		}
		if errors.Is(err, domain.ErrDuplicate) {
			// Carrera perdida contra otro guardado con el mismo número.
			continue
		}
		log.Error().Err(err).Str("number", inv.Number).Msg("guardar factura: escritura atómica")
		return failResult(msgSaveFailed)
	}

	return failResult(domain.ErrNumberExhausted.Error())
}

// attachPaymentLink solicita el enlace de pago y lo adjunta a la factura.
// Nunca falla el guardado: sin proveedor o ante error se sigue sin enlace.
func (uc *SaveInvoiceUseCase) attachPaymentLink(ctx context.Context, inv *entity.Invoice, client *entity.Client) {
	if uc.payments == nil {
		return
	}
	linkCtx, cancel := context.WithTimeout(ctx, paymentLinkTimeout)
	defer cancel()

	link, err := uc.payments.CreatePaymentLink(linkCtx, PaymentLinkParams{
		Amount:        inv.TotalAmount,
		Currency:      inv.Currency,
		Description:   fmt.Sprintf("Factura %s - %s", inv.Number, client.Name),
		InvoiceNumber: inv.Number,
		ClientEmail:   client.Email,
	})
	if err != nil {
		log.Warn().Err(err).Str("number", inv.Number).Msg("enlace de pago no disponible, se guarda sin él")
		return
	}
	inv.PaymentLink = link.URL
	inv.StripePaymentID = link.ExternalID
}

func failResult(message string) *dto.SaveInvoiceResult {
	return &dto.SaveInvoiceResult{Success: false, Error: message}
}
