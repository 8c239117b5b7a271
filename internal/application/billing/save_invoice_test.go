package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ── Fakes en memoria ──────────────────────────────────────────────────────────
// Replican el comportamiento relevante de Postgres: constraints únicos sobre
// clients.name e invoices.number que devuelven domain.ErrDuplicate.

type fakeClientRepo struct {
	mu      sync.Mutex
	byID    map[string]*entity.Client
	updates int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{byID: make(map[string]*entity.Client)}
}

func (r *fakeClientRepo) Create(client *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == client.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *client
	r.byID[client.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeClientRepo) GetByName(name string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) List(limit, offset int) ([]repository.ClientWithCount, int, error) {
	return nil, 0, nil
}

func (r *fakeClientRepo) Update(client *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	cp := *client
	r.byID[client.ID] = &cp
	return nil
}

func (r *fakeClientRepo) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	byID     map[string]*entity.Invoice
	byNumber map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		byID:     make(map[string]*entity.Invoice),
		byNumber: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byNumber[inv.Number]; exists {
		return domain.ErrDuplicate
	}
	cp := *inv
	r.byID[inv.ID] = &cp
	r.byNumber[inv.Number] = &cp
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], &cp)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.byID[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) GetByNumber(number string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.byNumber[number]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.InvoiceItem(nil), r.items[invoiceID]...), nil
}

func (r *fakeInvoiceRepo) ListByClient(clientID string) ([]*entity.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.byID[id]; ok {
		inv.Status = status
	}
	return nil
}

func (r *fakeInvoiceRepo) invoiceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// fakeTxRunner ejecuta el callback directamente contra el repo compartido.
type fakeTxRunner struct {
	repo *fakeInvoiceRepo
}

func (t *fakeTxRunner) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(t.repo)
}

type fakePayments struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *fakePayments) CreatePaymentLink(_ context.Context, params billing.PaymentLinkParams) (*billing.PaymentLink, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &billing.PaymentLink{
		URL:        "https://pay.example.com/" + params.InvoiceNumber,
		ExternalID: "plink_" + params.InvoiceNumber,
	}, nil
}

type fakeCache struct {
	mu            sync.Mutex
	invalidations int
}

func (c *fakeCache) InvalidateViews(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
}

// ── Armado ────────────────────────────────────────────────────────────────────

type saveFixture struct {
	uc       *billing.SaveInvoiceUseCase
	clients  *fakeClientRepo
	invoices *fakeInvoiceRepo
	payments *fakePayments
	cache    *fakeCache
}

func newSaveFixture() *saveFixture {
	clients := newFakeClientRepo()
	invoices := newFakeInvoiceRepo()
	payments := &fakePayments{}
	cache := &fakeCache{}
	uc := billing.NewSaveInvoiceUseCase(
		&fakeTxRunner{repo: invoices},
		billing.NewClientResolver(clients),
		invoices,
		payments,
		cache,
	)
	return &saveFixture{uc: uc, clients: clients, invoices: invoices, payments: payments, cache: cache}
}

func validCandidate() dto.CandidateInvoiceDTO {
	return dto.CandidateInvoiceDTO{
		Status:  dto.CandidateStatusDraft,
		Client:  dto.PartyDTO{Name: "Acme SL", Email: "contacto@acme.es"},
		Date:    "2026-08-29",
		DueDate: "2026-09-28",
		Items: []dto.CandidateItemDTO{
			{ID: uuid.NewString(), Description: "Consultoría", Quantity: dec("10"), UnitPrice: dec("100")},
		},
		Currency: "EUR",
		TaxRate:  dec("20"),
	}
}

// ── Camino feliz ──────────────────────────────────────────────────────────────

func TestSave_CaminoFeliz(t *testing.T) {
	f := newSaveFixture()

	result := f.uc.Save(context.Background(), validCandidate())

	require.True(t, result.Success, "error inesperado: %s", result.Error)
	assert.NotEmpty(t, result.InvoiceID)
	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{4}$`, result.InvoiceNumber)

	inv, err := f.invoices.GetByID(result.InvoiceID)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.True(t, dec("1200").Equal(inv.TotalAmount), "1000 + 20%% IVA = 1200, fue %s", inv.TotalAmount)
	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, entity.PaymentStatusPending, inv.PaymentStatus)
	assert.NotEmpty(t, inv.PaymentLink, "el enlace de pago debe adjuntarse cuando el proveedor responde")

	items, err := f.invoices.GetItemsByInvoiceID(result.InvoiceID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Consultoría", items[0].Description)

	assert.Equal(t, 1, f.cache.invalidations, "el guardado exitoso debe invalidar las vistas")
}

func TestSave_EstadoFinalizadoMapeaASent(t *testing.T) {
	f := newSaveFixture()
	in := validCandidate()
	in.Status = dto.CandidateStatusFinalized

	result := f.uc.Save(context.Background(), in)

	require.True(t, result.Success)
	inv, _ := f.invoices.GetByID(result.InvoiceID)
	assert.Equal(t, entity.InvoiceStatusSent, inv.Status)
}

// ── Validación: rechazo antes de cualquier escritura ──────────────────────────

func TestSave_RechazosDeValidacion(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CandidateInvoiceDTO)
	}{
		{"fecha inválida", func(in *dto.CandidateInvoiceDTO) { in.Date = "29/08/2026" }},
		{"vencimiento inválido", func(in *dto.CandidateInvoiceDTO) { in.DueDate = "" }},
		{"nombre de cliente vacío", func(in *dto.CandidateInvoiceDTO) { in.Client.Name = "   " }},
		{"tasa negativa", func(in *dto.CandidateInvoiceDTO) { in.TaxRate = dec("-1") }},
		{"tasa sobre 100", func(in *dto.CandidateInvoiceDTO) { in.TaxRate = dec("150") }},
		{"moneda desconocida", func(in *dto.CandidateInvoiceDTO) { in.Currency = "GBP" }},
		{"email de cliente inválido", func(in *dto.CandidateInvoiceDTO) { in.Client.Email = "no-es-email" }},
		{"cantidad cero", func(in *dto.CandidateInvoiceDTO) { in.Items[0].Quantity = decimal.Zero }},
		{"item sin uuid", func(in *dto.CandidateInvoiceDTO) { in.Items[0].ID = "abc" }},
		{"sin líneas (total cero)", func(in *dto.CandidateInvoiceDTO) { in.Items = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSaveFixture()
			in := validCandidate()
			tc.mutate(&in)

			result := f.uc.Save(context.Background(), in)

			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Error)
			assert.Equal(t, 0, f.invoices.invoiceCount(), "un rechazo no debe dejar escrituras")
			count, _ := f.clients.Count()
			assert.Equal(t, 0, count, "un rechazo no debe crear clientes")
			assert.Equal(t, 0, f.payments.calls, "un rechazo no debe pedir enlace de pago")
			assert.Equal(t, 0, f.cache.invalidations)
		})
	}
}

// ── Resolución de cliente ─────────────────────────────────────────────────────

func TestSave_ReutilizaClientePorNombre(t *testing.T) {
	f := newSaveFixture()

	first := f.uc.Save(context.Background(), validCandidate())
	require.True(t, first.Success)

	// Segunda factura del mismo cliente, ahora sin email.
	in := validCandidate()
	in.Client.Email = ""
	second := f.uc.Save(context.Background(), in)
	require.True(t, second.Success)

	count, _ := f.clients.Count()
	assert.Equal(t, 1, count, "el mismo nombre debe resolver al mismo cliente")

	client, _ := f.clients.GetByName("Acme SL")
	require.NotNil(t, client)
	assert.Equal(t, "contacto@acme.es", client.Email,
		"un valor entrante vacío nunca debe borrar el email existente")
}

func TestSave_FusionaCamposNuevosDelCliente(t *testing.T) {
	f := newSaveFixture()

	in := validCandidate()
	in.Client.Email = ""
	require.True(t, f.uc.Save(context.Background(), in).Success)

	in = validCandidate()
	in.Client.Address = "Calle Mayor 1"
	require.True(t, f.uc.Save(context.Background(), in).Success)

	client, _ := f.clients.GetByName("Acme SL")
	require.NotNil(t, client)
	assert.Equal(t, "contacto@acme.es", client.Email)
	assert.Equal(t, "Calle Mayor 1", client.Address)
}

// ── Enlace de pago best-effort ────────────────────────────────────────────────

func TestSave_FalloDelProveedorDePagosNoEsFatal(t *testing.T) {
	f := newSaveFixture()
	f.payments.err = errors.New("stripe caído")

	result := f.uc.Save(context.Background(), validCandidate())

	require.True(t, result.Success, "la factura debe guardarse aunque el proveedor de pagos falle")
	inv, _ := f.invoices.GetByID(result.InvoiceID)
	assert.Empty(t, inv.PaymentLink)
	assert.Empty(t, inv.StripePaymentID)
}

func TestSave_SinProveedorDePagos(t *testing.T) {
	f := newSaveFixture()
	uc := billing.NewSaveInvoiceUseCase(
		&fakeTxRunner{repo: f.invoices},
		billing.NewClientResolver(f.clients),
		f.invoices,
		nil, // sin Stripe configurado
		nil, // sin caché
	)

	result := uc.Save(context.Background(), validCandidate())

	require.True(t, result.Success)
	inv, _ := f.invoices.GetByID(result.InvoiceID)
	assert.Empty(t, inv.PaymentLink)
}

// ── Colisiones de número ──────────────────────────────────────────────────────

// TestSave_ConcurrenciaNumerosUnicos guarda muchas facturas en paralelo y
// verifica que todos los números asignados son distintos: el constraint único
// más el redibujado del sufijo absorben las colisiones.
func TestSave_ConcurrenciaNumerosUnicos(t *testing.T) {
	f := newSaveFixture()
	const n = 50

	results := make([]*dto.SaveInvoiceResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := validCandidate()
			in.Client.Name = fmt.Sprintf("Cliente %d", i)
			results[i] = f.uc.Save(context.Background(), in)
		}(i)
	}
	wg.Wait()

	numbers := make(map[string]struct{}, n)
	for i, res := range results {
		require.True(t, res.Success, "guardado %d falló: %s", i, res.Error)
		_, dup := numbers[res.InvoiceNumber]
		assert.False(t, dup, "número duplicado asignado: %s", res.InvoiceNumber)
		numbers[res.InvoiceNumber] = struct{}{}
	}
	assert.Equal(t, n, f.invoices.invoiceCount())
}

// TestSave_NuncaEntregaErrorNiPanic: el contrato del sobre es absoluto, un
// panic interno debe volver como success=false.
func TestSave_PanicRecuperado(t *testing.T) {
	clients := newFakeClientRepo()
	invoices := newFakeInvoiceRepo()
	uc := billing.NewSaveInvoiceUseCase(
		&panicTxRunner{},
		billing.NewClientResolver(clients),
		invoices,
		nil,
		nil,
	)

	var result *dto.SaveInvoiceResult
	require.NotPanics(t, func() {
		result = uc.Save(context.Background(), validCandidate())
	})
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, "error al guardar la factura", result.Error)
}

type panicTxRunner struct{}

func (panicTxRunner) RunInvoice(context.Context, func(repository.InvoiceRepository) error) error {
	panic("conexión perdida")
}
