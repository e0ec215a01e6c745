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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre SQLite.
type LocationRepo struct {
	db DBTX
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar db o tx (DBTX).
func NewLocationRepository(db DBTX) *LocationRepo {
	return &LocationRepo{db: db}
}

const locationSelect = `SELECT id, code, name, description, created_at, updated_at FROM locations`

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO locations (id, code, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.Code, l.Name, l.Description, utc(l.CreatedAt), utc(l.UpdatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) getOne(ctx context.Context, query string, arg any) (*entity.Location, error) {
	var row locationRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return row.entity(), nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.getOne(ctx, locationSelect+` WHERE id = ?`, id)
}

// GetByCode obtiene una ubicación por código.
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.getOne(ctx, locationSelect+` WHERE code = ?`, code)
}

// Update actualiza código, nombre y descripción.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE locations SET code = ?, name = ?, description = ?, updated_at = ? WHERE id = ?`,
		l.Code, l.Name, l.Description, utc(l.UpdatedAt), l.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ubicaciones paginadas por código.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	lim, off := pageArgs(limit, offset)
	var rows []locationRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, locationSelect+` ORDER BY code LIMIT ? OFFSET ?`, lim, off); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	list := make([]*entity.Location, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.entity())
	}
	return list, nil
}

// Count total de ubicaciones.
func (r *LocationRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM locations`); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

// Delete elimina la ubicación (sus balances y mutaciones caen en cascada).
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
