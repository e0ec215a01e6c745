package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// MutationUseCase escrituras de mutaciones: traduce la entrada HTTP al motor del ledger.
type MutationUseCase struct {
	engine LedgerEngine
}

// NewMutationUseCase construye el caso de uso.
func NewMutationUseCase(engine LedgerEngine) *MutationUseCase {
	return &MutationUseCase{engine: engine}
}

// Create registra una mutación a nombre de userID. Sin fecha se usa el día actual.
func (uc *MutationUseCase) Create(ctx context.Context, userID string, in dto.CreateMutationRequest) (*dto.MutationResponse, error) {
	if in.BalanceID <= 0 {
		return nil, fmt.Errorf("%w: product_location_id es obligatorio", domain.ErrInvalidInput)
	}
	var date time.Time
	if in.Date != "" {
		d, err := parseDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	res, err := uc.engine.CreateMutation(ctx, ledger.CreateMutationInput{
		BalanceID: in.BalanceID,
		Date:      date,
		Kind:      in.Kind,
		Amount:    in.Amount,
		Note:      in.Note,
		UserID:    userID,
	})
	if err != nil {
		return nil, err
	}
	return toMutationResult(res), nil
}

// Update modifica una mutación; los campos omitidos conservan su valor.
func (uc *MutationUseCase) Update(ctx context.Context, id int64, in dto.UpdateMutationRequest) (*dto.MutationResponse, error) {
	upd := ledger.UpdateMutationInput{
		Kind:   in.Kind,
		Amount: in.Amount,
		Note:   in.Note,
	}
	if in.Date != nil {
		d, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		upd.Date = &d
	}
	res, err := uc.engine.UpdateMutation(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return toMutationResult(res), nil
}

// Delete elimina una mutación revirtiendo su efecto en el balance.
func (uc *MutationUseCase) Delete(ctx context.Context, id int64) error {
	return uc.engine.DeleteMutation(ctx, id)
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return d, nil
}

func toMutationResult(r *ledger.MutationResult) *dto.MutationResponse {
	m := r.Mutation
	out := &dto.MutationResponse{
		ID:        m.ID,
		BalanceID: m.BalanceID,
		Date:      m.Date.Format(dto.DateLayout),
		Kind:      m.Kind,
		Amount:    m.Amount,
		Note:      m.Note,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if r.Balance != nil {
		out.Quantity = r.Balance.Quantity
		out.ProductID = r.Balance.ProductID
		out.LocationID = r.Balance.LocationID
	}
	if r.Product != nil {
		out.ProductCode = r.Product.Code
		out.ProductName = r.Product.Name
		out.Unit = r.Product.Unit
	}
	if r.Location != nil {
		out.LocationCode = r.Location.Code
		out.LocationName = r.Location.Name
	}
	return out
}
