package ledger_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// memStore almacén transaccional en memoria. Run serializa las transacciones con un mutex
// (equivalente a bloquear la fila del balance) y restaura la foto previa si fn falla.
type memStore struct {
	mu sync.Mutex

	balances  map[int64]entity.Balance
	mutations map[int64]entity.Mutation
	products  map[string]entity.Product
	locations map[string]entity.Location
	seq       int64

	// failUpdateQuantity simula un fallo del almacenamiento al escribir la cantidad.
	failUpdateQuantity error
	commits            int
}

func newMemStore() *memStore {
	return &memStore{
		balances:  map[int64]entity.Balance{},
		mutations: map[int64]entity.Mutation{},
		products:  map[string]entity.Product{},
		locations: map[string]entity.Location{},
	}
}

func (s *memStore) Run(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	mutationRepo repository.MutationRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	balances := make(map[int64]entity.Balance, len(s.balances))
	for k, v := range s.balances {
		balances[k] = v
	}
	mutations := make(map[int64]entity.Mutation, len(s.mutations))
	for k, v := range s.mutations {
		mutations[k] = v
	}
	seq := s.seq

	if err := fn(memBalances{s: s}, memMutations{s: s}, memProducts{s: s}, memLocations{s: s}); err != nil {
		s.balances, s.mutations, s.seq = balances, mutations, seq
		return err
	}
	s.commits++
	return nil
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

// Helpers de preparación y consulta, usados fuera de transacción.

func (s *memStore) addProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = entity.Product{ID: id, Code: "P-" + id, Name: "Producto " + id}
}

func (s *memStore) addLocation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[id] = entity.Location{ID: id, Code: "L-" + id, Name: "Ubicación " + id}
}

func (s *memStore) quantity(balanceID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[balanceID].Quantity
}

func (s *memStore) mutationsOf(balanceID int64) []entity.Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Mutation
	for _, m := range s.mutations {
		if m.BalanceID == balanceID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) mutationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mutations)
}

// ── Repositorios atados a la "transacción" (el mutex ya está tomado) ──────────

type memBalances struct {
	repository.BalanceRepository
	s *memStore
}

func (r memBalances) GetByID(_ context.Context, id int64) (*entity.Balance, error) {
	b, ok := r.s.balances[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r memBalances) GetForUpdate(ctx context.Context, id int64) (*entity.Balance, error) {
	return r.GetByID(ctx, id)
}

func (r memBalances) GetByPair(_ context.Context, productID, locationID string) (*entity.Balance, error) {
	for _, b := range r.s.balances {
		if b.ProductID == productID && b.LocationID == locationID {
			return &b, nil
		}
	}
	return nil, nil
}

func (r memBalances) Upsert(ctx context.Context, b *entity.Balance) error {
	existing, _ := r.GetByPair(ctx, b.ProductID, b.LocationID)
	if existing != nil {
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
	} else {
		b.ID = r.s.nextID()
	}
	r.s.balances[b.ID] = *b
	return nil
}

func (r memBalances) UpdateQuantity(_ context.Context, id, quantity int64) error {
	if r.s.failUpdateQuantity != nil {
		return r.s.failUpdateQuantity
	}
	b := r.s.balances[id]
	b.Quantity = quantity
	r.s.balances[id] = b
	return nil
}

func (r memBalances) Delete(_ context.Context, id int64) error {
	delete(r.s.balances, id)
	for mid, m := range r.s.mutations {
		if m.BalanceID == id {
			delete(r.s.mutations, mid)
		}
	}
	return nil
}

type memMutations struct {
	repository.MutationRepository
	s *memStore
}

func (r memMutations) Create(_ context.Context, m *entity.Mutation) error {
	m.ID = r.s.nextID()
	r.s.mutations[m.ID] = *m
	return nil
}

func (r memMutations) GetByID(_ context.Context, id int64) (*entity.Mutation, error) {
	m, ok := r.s.mutations[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r memMutations) GetForUpdate(ctx context.Context, id int64) (*entity.Mutation, error) {
	return r.GetByID(ctx, id)
}

func (r memMutations) Update(_ context.Context, m *entity.Mutation) error {
	r.s.mutations[m.ID] = *m
	return nil
}

func (r memMutations) Delete(_ context.Context, id int64) error {
	delete(r.s.mutations, id)
	return nil
}

type memProducts struct {
	repository.ProductRepository
	s *memStore
}

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type memLocations struct {
	repository.LocationRepository
	s *memStore
}

func (r memLocations) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}
