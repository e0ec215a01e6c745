package usecase

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LedgerEngine operaciones de escritura sobre el stock; la implementa *ledger.Engine.
type LedgerEngine interface {
	CreateMutation(ctx context.Context, in ledger.CreateMutationInput) (*ledger.MutationResult, error)
	UpdateMutation(ctx context.Context, id int64, in ledger.UpdateMutationInput) (*ledger.MutationResult, error)
	DeleteMutation(ctx context.Context, id int64) error
	SetBalance(ctx context.Context, productID, locationID string, quantity int64) (*entity.Balance, error)
	OverrideBalance(ctx context.Context, balanceID, quantity int64) (*entity.Balance, error)
	DeleteBalance(ctx context.Context, balanceID int64) error
}

var _ LedgerEngine = (*ledger.Engine)(nil)
