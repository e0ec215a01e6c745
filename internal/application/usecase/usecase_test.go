package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func ptr[T any](v T) *T { return &v }

// ── Categorías ───────────────────────────────────────────────────────────────

func TestCategoryUseCase_CreateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCategoryUseCase(newCategoryRepo(), newProductRepo())

	out, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "  Ferretería "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, "Ferretería", out.Name)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Ferretería"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryUseCase_ProductsAndDelete(t *testing.T) {
	ctx := context.Background()
	products := newProductRepo()
	categories := newCategoryRepo()
	uc := usecase.NewCategoryUseCase(categories, products)
	puc := usecase.NewProductUseCase(products, categories)

	cat, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Pinturas"})
	require.NoError(t, err)
	_, err = puc.Create(ctx, dto.CreateProductRequest{Code: "PIN-1", Name: "Vinilo", CategoryID: &cat.ID})
	require.NoError(t, err)
	_, err = puc.Create(ctx, dto.CreateProductRequest{Code: "TOR-1", Name: "Tornillo"})
	require.NoError(t, err)

	list, err := uc.Products(ctx, cat.ID, dto.PageRequest{Limit: 15})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "PIN-1", list.Items[0].Code)
	assert.Equal(t, 1, list.Page.Total)

	_, err = uc.Products(ctx, 99, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, cat.ID))
	assert.ErrorIs(t, uc.Delete(ctx, cat.ID), domain.ErrNotFound)
}

// ── Productos ────────────────────────────────────────────────────────────────

func TestProductUseCase_Create(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(newProductRepo(), newCategoryRepo())

	out, err := uc.Create(ctx, dto.CreateProductRequest{Code: "TOR-01", Name: "Tornillo"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "und", out.Unit)
	assert.Nil(t, out.CategoryID)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "TOR-01", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "X", Name: "Y", CategoryID: ptr(int64(7))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Sin código"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_Update(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(newProductRepo(), newCategoryRepo())

	a, err := uc.Create(ctx, dto.CreateProductRequest{Code: "A", Name: "Alfa", Unit: "kg"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "B", Name: "Beta"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, a.ID, dto.UpdateProductRequest{Name: ptr("Alfa 2")})
	require.NoError(t, err)
	assert.Equal(t, "Alfa 2", out.Name)
	assert.Equal(t, "A", out.Code)
	assert.Equal(t, "kg", out.Unit)

	_, err = uc.Update(ctx, a.ID, dto.UpdateProductRequest{Code: ptr("B")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	missing, err := uc.Update(ctx, "nope", dto.UpdateProductRequest{Name: ptr("x")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductUseCase_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	products := newProductRepo()
	uc := usecase.NewProductUseCase(products, newCategoryRepo())
	for _, c := range []string{"TOR-01", "TOR-02", "PIN-01"} {
		_, err := uc.Create(ctx, dto.CreateProductRequest{Code: c, Name: "Producto " + c})
		require.NoError(t, err)
	}

	out, err := uc.Search(ctx, "tor", dto.PageRequest{Limit: 15})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 2, out.Page.Total)

	_, err = uc.Search(ctx, "  ", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(ctx, dto.ProductFilterRequest{CategoryID: 3, WithStock: true})
	require.NoError(t, err)
	require.NotNil(t, products.lastF.CategoryID)
	assert.Equal(t, int64(3), *products.lastF.CategoryID)
	assert.True(t, products.lastF.WithStock)
}

// ── Ubicaciones ──────────────────────────────────────────────────────────────

func TestLocationUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewLocationUseCase(newLocationRepo())

	loc, err := uc.Create(ctx, dto.CreateLocationRequest{Code: "BOD-A", Name: "Bodega A"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateLocationRequest{Code: "BOD-A", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	upd, err := uc.Update(ctx, loc.ID, dto.UpdateLocationRequest{Description: ptr("primer piso")})
	require.NoError(t, err)
	assert.Equal(t, "primer piso", upd.Description)
	assert.Equal(t, "Bodega A", upd.Name)

	list, err := uc.List(ctx, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)

	require.NoError(t, uc.Delete(ctx, loc.ID))
	got, err := uc.GetByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ── Stock ────────────────────────────────────────────────────────────────────

func stockFixture() (*fakeEngine, *balanceRepo) {
	view := &entity.BalanceView{
		Balance:      entity.Balance{ID: 1, ProductID: "p-1", LocationID: "l-1", Quantity: 10},
		ProductCode:  "TOR-01",
		ProductUnit:  "und",
		LocationCode: "BOD-A",
	}
	engine := &fakeEngine{balance: &view.Balance}
	return engine, &balanceRepo{views: map[int64]*entity.BalanceView{1: view}}
}

func TestStockUseCase_Set(t *testing.T) {
	ctx := context.Background()
	engine, balances := stockFixture()
	uc := usecase.NewStockUseCase(engine, balances)

	out, err := uc.Set(ctx, dto.SetBalanceRequest{ProductID: "p-1", LocationID: "l-1", Quantity: ptr(int64(0))})
	require.NoError(t, err)
	assert.Equal(t, int64(0), engine.setQty)
	assert.Equal(t, "TOR-01", out.ProductCode)

	_, err = uc.Set(ctx, dto.SetBalanceRequest{ProductID: "p-1", LocationID: "l-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Set(ctx, dto.SetBalanceRequest{ProductID: "p-1", LocationID: "l-1", Quantity: ptr(int64(-1))})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestStockUseCase_Reads(t *testing.T) {
	ctx := context.Background()
	engine, balances := stockFixture()
	uc := usecase.NewStockUseCase(engine, balances)

	list, err := uc.List(ctx, dto.PageRequest{Limit: 15})
	require.NoError(t, err)
	require.NotNil(t, list.Page)
	assert.Equal(t, 1, list.Page.Total)

	got, err := uc.GetByPair(ctx, dto.BalancePairRequest{ProductID: "p-1", LocationID: "l-1"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.Quantity)

	got, err = uc.GetByPair(ctx, dto.BalancePairRequest{ProductID: "p-1", LocationID: "l-2"})
	require.NoError(t, err)
	assert.Nil(t, got)

	byProduct, err := uc.ListByProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Len(t, byProduct.Items, 1)
	assert.Nil(t, byProduct.Page)
}

func TestStockUseCase_OverrideAndDelete(t *testing.T) {
	ctx := context.Background()
	engine, balances := stockFixture()
	uc := usecase.NewStockUseCase(engine, balances)

	_, err := uc.Override(ctx, 1, dto.OverrideBalanceRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Override(ctx, 1, dto.OverrideBalanceRequest{Quantity: ptr(int64(4))})
	require.NoError(t, err)
	assert.Equal(t, int64(4), engine.setQty)

	require.NoError(t, uc.Delete(ctx, 1))
	assert.Equal(t, int64(1), engine.deletedID)
}

// ── Mutaciones ───────────────────────────────────────────────────────────────

func mutationResult() *ledger.MutationResult {
	return &ledger.MutationResult{
		Mutation: &entity.Mutation{ID: 9, BalanceID: 1, Kind: "out", Amount: 3, UserID: "u-1",
			Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		Balance:  &entity.Balance{ID: 1, ProductID: "p-1", LocationID: "l-1", Quantity: 7},
		Product:  &entity.Product{ID: "p-1", Code: "TOR-01", Name: "Tornillo", Unit: "und"},
		Location: &entity.Location{ID: "l-1", Code: "BOD-A", Name: "Bodega A"},
	}
}

func TestMutationUseCase_Create(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{result: mutationResult()}
	uc := usecase.NewMutationUseCase(engine)

	out, err := uc.Create(ctx, "u-1", dto.CreateMutationRequest{BalanceID: 1, Date: "2024-05-02", Kind: "out", Amount: 3})
	require.NoError(t, err)
	assert.Equal(t, "u-1", engine.created.UserID)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), engine.created.Date)
	assert.Equal(t, "2024-05-02", out.Date)
	assert.Equal(t, int64(7), out.Quantity)
	assert.Equal(t, "TOR-01", out.ProductCode)
	assert.Equal(t, "BOD-A", out.LocationCode)

	_, err = uc.Create(ctx, "u-1", dto.CreateMutationRequest{BalanceID: 1, Kind: "in", Amount: 1})
	require.NoError(t, err)
	assert.True(t, engine.created.Date.IsZero())

	_, err = uc.Create(ctx, "u-1", dto.CreateMutationRequest{BalanceID: 1, Date: "02/05/2024", Kind: "in", Amount: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "u-1", dto.CreateMutationRequest{Kind: "in", Amount: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMutationUseCase_EngineErrorPassesThrough(t *testing.T) {
	engine := &fakeEngine{err: domain.InsufficientStock("stock insuficiente: disponible 2, solicitado 3")}
	uc := usecase.NewMutationUseCase(engine)

	_, err := uc.Create(context.Background(), "u-1", dto.CreateMutationRequest{BalanceID: 1, Kind: "out", Amount: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestMutationUseCase_Update(t *testing.T) {
	engine := &fakeEngine{result: mutationResult()}
	uc := usecase.NewMutationUseCase(engine)

	_, err := uc.Update(context.Background(), 9, dto.UpdateMutationRequest{Amount: ptr(int64(3)), Date: ptr("2024-05-03")})
	require.NoError(t, err)
	require.NotNil(t, engine.updated.Date)
	assert.Equal(t, 3, engine.updated.Date.Day())
	assert.Nil(t, engine.updated.Kind)

	_, err = uc.Update(context.Background(), 9, dto.UpdateMutationRequest{Date: ptr("ayer")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.Delete(context.Background(), 9))
	assert.Equal(t, int64(9), engine.deletedID)
}
