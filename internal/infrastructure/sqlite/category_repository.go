package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre SQLite.
type CategoryRepo struct {
	db DBTX
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(db DBTX) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categorySelect = `SELECT id, name, description, created_at, updated_at FROM categories`

// Create persiste la categoría y rellena su ID.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.Name, c.Description, utc(c.CreatedAt), utc(c.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert category id: %w", err)
	}
	return nil
}

func (r *CategoryRepo) getOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	var row categoryRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return row.entity(), nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	return r.getOne(ctx, categorySelect+` WHERE id = ?`, id)
}

// GetByName obtiene una categoría por nombre.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, categorySelect+` WHERE name = ?`, name)
}

// Update actualiza nombre y descripción.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Description, utc(c.UpdatedAt), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista categorías paginadas por nombre.
func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	lim, off := pageArgs(limit, offset)
	var rows []categoryRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, categorySelect+` ORDER BY name LIMIT ? OFFSET ?`, lim, off); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	list := make([]*entity.Category, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.entity())
	}
	return list, nil
}

// Count total de categorías.
func (r *CategoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM categories`); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// Delete elimina la categoría; products.category_id pasa a NULL.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
