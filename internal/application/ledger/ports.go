package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad para el motor de mutaciones.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		mutationRepo repository.MutationRepository,
		productRepo repository.ProductRepository,
		locationRepo repository.LocationRepository,
	) error) error
}
