package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MutationFilter filtros combinables para las vistas de mutaciones. Los campos vacíos no filtran.
// From y To son inclusivos y se comparan contra la fecha de la mutación.
type MutationFilter struct {
	Kind       string
	BalanceID  int64
	ProductID  string
	LocationID string
	UserID     string
	From       *time.Time
	To         *time.Time
}

// MutationRepository define el puerto de persistencia para mutaciones de stock.
// Las listas se ordenan por fecha descendente (y luego por id descendente).
type MutationRepository interface {
	Create(ctx context.Context, m *entity.Mutation) error
	GetByID(ctx context.Context, id int64) (*entity.Mutation, error)
	// GetForUpdate relee la mutación bloqueando su fila; se llama después de bloquear el balance.
	GetForUpdate(ctx context.Context, id int64) (*entity.Mutation, error)
	Update(ctx context.Context, m *entity.Mutation) error
	Delete(ctx context.Context, id int64) error

	GetView(ctx context.Context, id int64) (*entity.MutationView, error)
	// List devuelve las mutaciones que cumplen el filtro; limit <= 0 significa sin límite.
	List(ctx context.Context, f MutationFilter, limit, offset int) ([]*entity.MutationView, error)
	Count(ctx context.Context, f MutationFilter) (int, error)
	// Totals suma entradas y salidas registradas para un balance.
	Totals(ctx context.Context, balanceID int64) (totalIn, totalOut int64, err error)
}
