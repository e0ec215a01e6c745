package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre SQLite.
type ProductRepo struct {
	db DBTX
}

// NewProductRepository construye el adaptador de productos. Pasar db o tx (DBTX).
func NewProductRepository(db DBTX) *ProductRepo {
	return &ProductRepo{db: db}
}

const productSelect = `
	SELECT p.id, p.code, p.name, p.category_id, p.unit, p.description, p.created_at, p.updated_at FROM products p`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const q = `
		INSERT INTO products (id, code, name, category_id, unit, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		p.ID, p.Code, p.Name, p.CategoryID, p.Unit, p.Description, utc(p.CreatedAt), utc(p.UpdatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	var row productRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.entity(), nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.id = ?`, id)
}

// GetByCode obtiene un producto por su código único.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.code = ?`, code)
}

// Update actualiza un producto existente. El stock se maneja vía mutaciones.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET code = ?, name = ?, category_id = ?, unit = ?, description = ?, updated_at = ? WHERE id = ?`,
		p.Code, p.Name, p.CategoryID, p.Unit, p.Description, utc(p.UpdatedAt), p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos filtrados y paginados, ordenados por código.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	where, args := buildProductFilter(f)
	lim, off := pageArgs(limit, offset)
	args = append(args, lim, off)

	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, productSelect+where+` ORDER BY p.code LIMIT ? OFFSET ?`, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.entity())
	}
	return list, nil
}

// Count total de productos que cumplen el filtro.
func (r *ProductRepo) Count(ctx context.Context, f repository.ProductFilter) (int, error) {
	where, args := buildProductFilter(f)
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM products p`+where, args...); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Delete elimina un producto por ID (sus balances y mutaciones caen en cascada).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func buildProductFilter(f repository.ProductFilter) (string, []any) {
	var conds []string
	var args []any
	if f.CategoryID != nil {
		conds, args = append(conds, "p.category_id = ?"), append(args, *f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		conds, args = append(conds, "(p.name LIKE ? OR p.code LIKE ?)"), append(args, like, like)
	}
	if f.WithStock {
		conds = append(conds, "EXISTS (SELECT 1 FROM product_locations pl WHERE pl.product_id = p.id AND pl.quantity > 0)")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
