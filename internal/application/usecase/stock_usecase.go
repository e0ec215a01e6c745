package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockUseCase lecturas de balances y escrituras directas de cantidad (SetBalance, override, delete).
type StockUseCase struct {
	engine      LedgerEngine
	balanceRepo repository.BalanceRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(engine LedgerEngine, balanceRepo repository.BalanceRepository) *StockUseCase {
	return &StockUseCase{engine: engine, balanceRepo: balanceRepo}
}

// List balances paginados.
func (uc *StockUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.BalanceListResponse, error) {
	list, err := uc.balanceRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.balanceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceListResponse{
		Items: toBalanceResponses(list),
		Page:  &dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// GetByID obtiene un balance; nil si no existe.
func (uc *StockUseCase) GetByID(ctx context.Context, id int64) (*dto.BalanceResponse, error) {
	v, err := uc.balanceRepo.GetView(ctx, id)
	if err != nil || v == nil {
		return nil, err
	}
	return toBalanceResponse(v), nil
}

// GetByPair obtiene el balance de un producto en una ubicación; nil si no existe.
func (uc *StockUseCase) GetByPair(ctx context.Context, in dto.BalancePairRequest) (*dto.BalanceResponse, error) {
	if strings.TrimSpace(in.ProductID) == "" || strings.TrimSpace(in.LocationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	v, err := uc.balanceRepo.GetViewByPair(ctx, in.ProductID, in.LocationID)
	if err != nil || v == nil {
		return nil, err
	}
	return toBalanceResponse(v), nil
}

// ListByProduct balances de un producto en todas sus ubicaciones.
func (uc *StockUseCase) ListByProduct(ctx context.Context, productID string) (*dto.BalanceListResponse, error) {
	list, err := uc.balanceRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceListResponse{Items: toBalanceResponses(list)}, nil
}

// ListByLocation balances de una ubicación.
func (uc *StockUseCase) ListByLocation(ctx context.Context, locationID string) (*dto.BalanceListResponse, error) {
	list, err := uc.balanceRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceListResponse{Items: toBalanceResponses(list)}, nil
}

// Set fija la cantidad del par producto/ubicación, creando el balance si no existe.
func (uc *StockUseCase) Set(ctx context.Context, in dto.SetBalanceRequest) (*dto.BalanceResponse, error) {
	if strings.TrimSpace(in.ProductID) == "" || strings.TrimSpace(in.LocationID) == "" || in.Quantity == nil {
		return nil, domain.ErrInvalidInput
	}
	b, err := uc.engine.SetBalance(ctx, in.ProductID, in.LocationID, *in.Quantity)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, b)
}

// Override fija la cantidad de un balance existente.
func (uc *StockUseCase) Override(ctx context.Context, id int64, in dto.OverrideBalanceRequest) (*dto.BalanceResponse, error) {
	if in.Quantity == nil {
		return nil, domain.ErrInvalidInput
	}
	b, err := uc.engine.OverrideBalance(ctx, id, *in.Quantity)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, b)
}

// Delete elimina un balance y sus mutaciones.
func (uc *StockUseCase) Delete(ctx context.Context, id int64) error {
	return uc.engine.DeleteBalance(ctx, id)
}

// view relee el balance con producto y ubicación ya confirmado; si la lectura falla responde con lo escrito.
func (uc *StockUseCase) view(ctx context.Context, b *entity.Balance) (*dto.BalanceResponse, error) {
	v, err := uc.balanceRepo.GetView(ctx, b.ID)
	if err != nil || v == nil {
		return toBalanceResponse(&entity.BalanceView{Balance: *b}), nil
	}
	return toBalanceResponse(v), nil
}

func toBalanceResponses(list []*entity.BalanceView) []dto.BalanceResponse {
	items := make([]dto.BalanceResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toBalanceResponse(v))
	}
	return items
}

func toBalanceResponse(v *entity.BalanceView) *dto.BalanceResponse {
	return &dto.BalanceResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		ProductCode:  v.ProductCode,
		ProductName:  v.ProductName,
		Unit:         v.ProductUnit,
		LocationID:   v.LocationID,
		LocationCode: v.LocationCode,
		LocationName: v.LocationName,
		Quantity:     v.Quantity,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
