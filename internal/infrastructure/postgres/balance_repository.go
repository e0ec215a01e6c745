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

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de balances. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `id, product_id, location_id, quantity, created_at, updated_at`

const balanceViewSelect = `
	SELECT pl.id, pl.product_id, pl.location_id, pl.quantity, pl.created_at, pl.updated_at,
	       p.code, p.name, p.unit, l.code, l.name
	FROM product_locations pl
	JOIN products p ON p.id = pl.product_id
	JOIN locations l ON l.id = pl.location_id`

func scanBalance(row pgx.Row) (*entity.Balance, error) {
	var b entity.Balance
	if err := row.Scan(&b.ID, &b.ProductID, &b.LocationID, &b.Quantity, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBalanceView(row pgx.Row) (*entity.BalanceView, error) {
	var v entity.BalanceView
	if err := row.Scan(
		&v.ID, &v.ProductID, &v.LocationID, &v.Quantity, &v.CreatedAt, &v.UpdatedAt,
		&v.ProductCode, &v.ProductName, &v.ProductUnit, &v.LocationCode, &v.LocationName,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByID obtiene un balance por ID; nil si no existe.
func (r *BalanceRepo) GetByID(ctx context.Context, id int64) (*entity.Balance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx,
		`SELECT `+balanceColumns+` FROM product_locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el balance y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *BalanceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Balance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx,
		`SELECT `+balanceColumns+` FROM product_locations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// GetByPair obtiene el balance de un producto en una ubicación.
func (r *BalanceRepo) GetByPair(ctx context.Context, productID, locationID string) (*entity.Balance, error) {
	if !isUUID(productID) || !isUUID(locationID) {
		return nil, nil
	}
	b, err := scanBalance(r.q.QueryRow(ctx,
		`SELECT `+balanceColumns+` FROM product_locations WHERE product_id = $1 AND location_id = $2`,
		productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance by pair: %w", err)
	}
	return b, nil
}

// Upsert inserta o sobrescribe la cantidad del par (producto, ubicación). El conflicto bloquea la fila existente.
func (r *BalanceRepo) Upsert(ctx context.Context, b *entity.Balance) error {
	query := `
		INSERT INTO product_locations (product_id, location_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, b.ProductID, b.LocationID, b.Quantity, b.CreatedAt, b.UpdatedAt).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto o ubicación no encontrados")
		}
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// UpdateQuantity escribe la nueva cantidad del balance.
func (r *BalanceRepo) UpdateQuantity(ctx context.Context, id, quantity int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE product_locations SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update balance quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("balance no encontrado")
	}
	return nil
}

// Delete elimina el balance (sus mutaciones caen en cascada).
func (r *BalanceRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_locations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete balance: %w", err)
	}
	return nil
}

// GetView obtiene un balance con producto y ubicación.
func (r *BalanceRepo) GetView(ctx context.Context, id int64) (*entity.BalanceView, error) {
	v, err := scanBalanceView(r.q.QueryRow(ctx, balanceViewSelect+` WHERE pl.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance view: %w", err)
	}
	return v, nil
}

// GetViewByPair obtiene la vista del balance de un par producto/ubicación.
func (r *BalanceRepo) GetViewByPair(ctx context.Context, productID, locationID string) (*entity.BalanceView, error) {
	if !isUUID(productID) || !isUUID(locationID) {
		return nil, nil
	}
	v, err := scanBalanceView(r.q.QueryRow(ctx,
		balanceViewSelect+` WHERE pl.product_id = $1 AND pl.location_id = $2`, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance view by pair: %w", err)
	}
	return v, nil
}

// List lista balances paginados ordenados por código de producto y ubicación.
func (r *BalanceRepo) List(ctx context.Context, limit, offset int) ([]*entity.BalanceView, error) {
	lim, off := pageArgs(limit, offset)
	return r.listViews(ctx, balanceViewSelect+` ORDER BY p.code, l.code LIMIT $1 OFFSET $2`, lim, off)
}

// Count total de balances.
func (r *BalanceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM product_locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count balances: %w", err)
	}
	return n, nil
}

// ListByProduct balances de un producto en todas sus ubicaciones.
func (r *BalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.BalanceView, error) {
	if !isUUID(productID) {
		return []*entity.BalanceView{}, nil
	}
	return r.listViews(ctx, balanceViewSelect+` WHERE pl.product_id = $1 ORDER BY l.code`, productID)
}

// ListByLocation balances de todos los productos de una ubicación.
func (r *BalanceRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.BalanceView, error) {
	if !isUUID(locationID) {
		return []*entity.BalanceView{}, nil
	}
	return r.listViews(ctx, balanceViewSelect+` WHERE pl.location_id = $1 ORDER BY p.code`, locationID)
}

func (r *BalanceRepo) listViews(ctx context.Context, query string, args ...any) ([]*entity.BalanceView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.BalanceView
	for rows.Next() {
		v, err := scanBalanceView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
