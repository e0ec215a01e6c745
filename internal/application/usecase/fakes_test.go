package usecase_test

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ── Repositorios en memoria ──────────────────────────────────────────────────

type categoryRepo struct {
	repository.CategoryRepository
	byID   map[int64]*entity.Category
	nextID int64
}

func newCategoryRepo() *categoryRepo { return &categoryRepo{byID: map[int64]*entity.Category{}} }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

func (r *categoryRepo) List(context.Context, int, int) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) Count(context.Context) (int, error) { return len(r.byID), nil }

type productRepo struct {
	repository.ProductRepository
	byID  map[string]*entity.Product
	lastF repository.ProductFilter
}

func newProductRepo() *productRepo { return &productRepo{byID: map[string]*entity.Product{}} }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *productRepo) match(f repository.ProductFilter, p *entity.Product) bool {
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Code), q) {
			return false
		}
	}
	return true
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter, _, _ int) ([]*entity.Product, error) {
	r.lastF = f
	var out []*entity.Product
	for _, p := range r.byID {
		if r.match(f, p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *productRepo) Count(_ context.Context, f repository.ProductFilter) (int, error) {
	n := 0
	for _, p := range r.byID {
		if r.match(f, p) {
			n++
		}
	}
	return n, nil
}

type locationRepo struct {
	repository.LocationRepository
	byID map[string]*entity.Location
}

func newLocationRepo() *locationRepo { return &locationRepo{byID: map[string]*entity.Location{}} }

func (r *locationRepo) Create(_ context.Context, l *entity.Location) error {
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	if l, ok := r.byID[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *locationRepo) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	for _, l := range r.byID {
		if l.Code == code {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *locationRepo) Update(_ context.Context, l *entity.Location) error {
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *locationRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *locationRepo) List(context.Context, int, int) ([]*entity.Location, error) {
	out := make([]*entity.Location, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l)
	}
	return out, nil
}

func (r *locationRepo) Count(context.Context) (int, error) { return len(r.byID), nil }

type balanceRepo struct {
	repository.BalanceRepository
	views map[int64]*entity.BalanceView
}

func (r *balanceRepo) GetView(_ context.Context, id int64) (*entity.BalanceView, error) {
	if v, ok := r.views[id]; ok {
		return v, nil
	}
	return nil, nil
}

func (r *balanceRepo) GetViewByPair(_ context.Context, productID, locationID string) (*entity.BalanceView, error) {
	for _, v := range r.views {
		if v.ProductID == productID && v.LocationID == locationID {
			return v, nil
		}
	}
	return nil, nil
}

func (r *balanceRepo) List(context.Context, int, int) ([]*entity.BalanceView, error) {
	out := make([]*entity.BalanceView, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *balanceRepo) Count(context.Context) (int, error) { return len(r.views), nil }

func (r *balanceRepo) ListByProduct(_ context.Context, productID string) ([]*entity.BalanceView, error) {
	var out []*entity.BalanceView
	for _, v := range r.views {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

// ── Motor falso ──────────────────────────────────────────────────────────────

type fakeEngine struct {
	created   ledger.CreateMutationInput
	updated   ledger.UpdateMutationInput
	deletedID int64
	setQty    int64
	err       error
	result    *ledger.MutationResult
	balance   *entity.Balance
}

func (e *fakeEngine) CreateMutation(_ context.Context, in ledger.CreateMutationInput) (*ledger.MutationResult, error) {
	e.created = in
	return e.result, e.err
}

func (e *fakeEngine) UpdateMutation(_ context.Context, _ int64, in ledger.UpdateMutationInput) (*ledger.MutationResult, error) {
	e.updated = in
	return e.result, e.err
}

func (e *fakeEngine) DeleteMutation(_ context.Context, id int64) error {
	e.deletedID = id
	return e.err
}

func (e *fakeEngine) SetBalance(_ context.Context, _, _ string, quantity int64) (*entity.Balance, error) {
	if e.err != nil {
		return nil, e.err
	}
	if quantity < 0 {
		return nil, domain.InvalidOperation("la cantidad no puede ser negativa")
	}
	e.setQty = quantity
	return e.balance, nil
}

func (e *fakeEngine) OverrideBalance(_ context.Context, _, quantity int64) (*entity.Balance, error) {
	e.setQty = quantity
	return e.balance, e.err
}

func (e *fakeEngine) DeleteBalance(_ context.Context, id int64) error {
	e.deletedID = id
	return e.err
}
