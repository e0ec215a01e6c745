package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, code, name, description, created_at, updated_at`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	if err := row.Scan(&l.ID, &l.Code, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, code, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, l.ID, l.Code, l.Name, l.Description, l.CreatedAt, l.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !isUUID(id) {
		return nil, nil
	}
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// GetByCode obtiene una ubicación por código.
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location by code: %w", err)
	}
	return l, nil
}

// Update actualiza código, nombre y descripción.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `UPDATE locations SET code = $2, name = $3, description = $4, updated_at = $5 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, l.ID, l.Code, l.Name, l.Description, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ubicaciones paginadas por código.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx,
		`SELECT `+locationColumns+` FROM locations ORDER BY code LIMIT $1 OFFSET $2`, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Count total de ubicaciones.
func (r *LocationRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

// Delete elimina la ubicación (sus balances y mutaciones caen en cascada).
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
