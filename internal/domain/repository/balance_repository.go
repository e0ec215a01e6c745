package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceRepository define el puerto para los balances producto/ubicación.
// Dentro de una transacción es la única vía para modificar la cantidad de stock.
type BalanceRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Balance, error)
	// GetForUpdate bloquea la fila del balance hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Balance, error)
	GetByPair(ctx context.Context, productID, locationID string) (*entity.Balance, error)
	// Upsert inserta el balance o sobrescribe la cantidad del par existente; rellena ID y timestamps.
	Upsert(ctx context.Context, b *entity.Balance) error
	UpdateQuantity(ctx context.Context, id, quantity int64) error
	// Delete elimina el balance; sus mutaciones caen por la FK en cascada.
	Delete(ctx context.Context, id int64) error

	// Vistas de lectura con producto y ubicación resueltos.
	GetView(ctx context.Context, id int64) (*entity.BalanceView, error)
	GetViewByPair(ctx context.Context, productID, locationID string) (*entity.BalanceView, error)
	List(ctx context.Context, limit, offset int) ([]*entity.BalanceView, error)
	Count(ctx context.Context) (int, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.BalanceView, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.BalanceView, error)
}
