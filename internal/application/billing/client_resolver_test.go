package billing_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/voiceinvoice-api/internal/application/billing"
	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/entity"
)

// perdedorClientRepo simula al caller que pierde la carrera de creación:
// la primera búsqueda por nombre no ve nada, el Create choca con el
// constraint único porque otro caller ya insertó, y la relectura sí
// encuentra al ganador.
type perdedorClientRepo struct {
	*fakeClientRepo
	mu       sync.Mutex
	lecturas int
	winner   *entity.Client
	creates  int
}

func (r *perdedorClientRepo) GetByName(name string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lecturas++
	if r.lecturas == 1 {
		return nil, nil
	}
	cp := *r.winner
	return &cp, nil
}

func (r *perdedorClientRepo) Create(client *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	return domain.ErrDuplicate
}

func TestResolve_DuplicadoReleeAlGanador(t *testing.T) {
	winner := &entity.Client{
		ID:        "11111111-1111-1111-1111-111111111111",
		Name:      "Acme SL",
		Email:     "facturas@acme.es",
		Address:   "Calle Mayor 1",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	repo := &perdedorClientRepo{fakeClientRepo: newFakeClientRepo(), winner: winner}
	resolver := billing.NewClientResolver(repo)

	got, err := resolver.Resolve(dto.PartyDTO{Name: "Acme SL", Email: "facturas@acme.es"})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, winner.ID, got.ID, "el perdedor debe adoptar el cliente ya creado")
	assert.Equal(t, 1, repo.creates, "un único intento de creación")
	assert.Equal(t, 2, repo.lecturas, "búsqueda inicial + relectura tras el duplicado")
}

func TestResolve_ConcurrenciaMismoNombre(t *testing.T) {
	const callers = 20

	repo := newFakeClientRepo()
	resolver := billing.NewClientResolver(repo)

	resolved := make([]*entity.Client, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resolved[i], errs[i] = resolver.Resolve(dto.PartyDTO{Name: "Acme SL"})
		}(i)
	}
	wg.Wait()

	first := ""
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i], "resolución %d falló", i)
		require.NotNil(t, resolved[i])
		if first == "" {
			first = resolved[i].ID
		}
		assert.Equal(t, first, resolved[i].ID, "todos los callers deben converger en el mismo cliente")
	}

	winner, err := repo.GetByName("Acme SL")
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, first, winner.ID)
	assert.Len(t, repo.byID, 1, "la carrera no debe dejar clientes duplicados")
}
