package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	CategoryID *int64
	Search     string // coincidencia parcial por nombre o código
	WithStock  bool   // solo productos con algún balance > 0
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, f ProductFilter, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context, f ProductFilter) (int, error)
	Delete(ctx context.Context, id string) error
}
