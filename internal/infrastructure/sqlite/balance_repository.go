package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre SQLite.
type BalanceRepo struct {
	db DBTX
}

// NewBalanceRepository construye el adaptador. Pasar *sqlx.DB o *sqlx.Tx.
func NewBalanceRepository(db DBTX) *BalanceRepo {
	return &BalanceRepo{db: db}
}

const balanceSelect = `SELECT id, product_id, location_id, quantity, created_at, updated_at FROM product_locations`

const balanceViewSelect = `
	SELECT pl.id, pl.product_id, pl.location_id, pl.quantity, pl.created_at, pl.updated_at,
	       p.code AS product_code, p.name AS product_name, p.unit AS product_unit,
	       l.code AS location_code, l.name AS location_name
	FROM product_locations pl
	JOIN products p ON p.id = pl.product_id
	JOIN locations l ON l.id = pl.location_id`

func (r *BalanceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Balance, error) {
	var row balanceRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return row.entity(), nil
}

// GetByID obtiene un balance por ID; nil si no existe.
func (r *BalanceRepo) GetByID(ctx context.Context, id int64) (*entity.Balance, error) {
	return r.getOne(ctx, balanceSelect+` WHERE id = ?`, id)
}

// GetForUpdate en SQLite es una lectura normal: la transacción ya tiene el bloqueo de escritura (BEGIN IMMEDIATE).
func (r *BalanceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Balance, error) {
	return r.GetByID(ctx, id)
}

// GetByPair obtiene el balance de un producto en una ubicación.
func (r *BalanceRepo) GetByPair(ctx context.Context, productID, locationID string) (*entity.Balance, error) {
	return r.getOne(ctx, balanceSelect+` WHERE product_id = ? AND location_id = ?`, productID, locationID)
}

// Upsert inserta o sobrescribe la cantidad del par y relee id/created_at.
func (r *BalanceRepo) Upsert(ctx context.Context, b *entity.Balance) error {
	const q = `
		INSERT INTO product_locations (product_id, location_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(product_id, location_id) DO UPDATE SET
			quantity = excluded.quantity,
			updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, q,
		b.ProductID, b.LocationID, b.Quantity, utc(b.CreatedAt), utc(b.UpdatedAt),
	); err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto o ubicación no encontrados")
		}
		return fmt.Errorf("upsert balance: %w", err)
	}
	saved, err := r.GetByPair(ctx, b.ProductID, b.LocationID)
	if err != nil {
		return err
	}
	if saved == nil {
		return fmt.Errorf("upsert balance: fila no encontrada tras escribir")
	}
	b.ID, b.CreatedAt, b.UpdatedAt = saved.ID, saved.CreatedAt, saved.UpdatedAt
	return nil
}

// UpdateQuantity escribe la nueva cantidad del balance.
func (r *BalanceRepo) UpdateQuantity(ctx context.Context, id, quantity int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE product_locations SET quantity = ?, updated_at = ? WHERE id = ?`, quantity, utc(time.Now()), id)
	if err != nil {
		return fmt.Errorf("update balance quantity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("balance no encontrado")
	}
	return nil
}

// Delete elimina el balance (sus mutaciones caen en cascada).
func (r *BalanceRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM product_locations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete balance: %w", err)
	}
	return nil
}

func (r *BalanceRepo) getView(ctx context.Context, query string, args ...any) (*entity.BalanceView, error) {
	var row balanceViewRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance view: %w", err)
	}
	return row.view(), nil
}

// GetView obtiene un balance con producto y ubicación.
func (r *BalanceRepo) GetView(ctx context.Context, id int64) (*entity.BalanceView, error) {
	return r.getView(ctx, balanceViewSelect+` WHERE pl.id = ?`, id)
}

// GetViewByPair obtiene la vista del balance de un par producto/ubicación.
func (r *BalanceRepo) GetViewByPair(ctx context.Context, productID, locationID string) (*entity.BalanceView, error) {
	return r.getView(ctx, balanceViewSelect+` WHERE pl.product_id = ? AND pl.location_id = ?`, productID, locationID)
}

// List lista balances paginados ordenados por código de producto y ubicación.
func (r *BalanceRepo) List(ctx context.Context, limit, offset int) ([]*entity.BalanceView, error) {
	lim, off := pageArgs(limit, offset)
	return r.listViews(ctx, balanceViewSelect+` ORDER BY p.code, l.code LIMIT ? OFFSET ?`, lim, off)
}

// Count total de balances.
func (r *BalanceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM product_locations`); err != nil {
		return 0, fmt.Errorf("count balances: %w", err)
	}
	return n, nil
}

// ListByProduct balances de un producto en todas sus ubicaciones.
func (r *BalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.BalanceView, error) {
	return r.listViews(ctx, balanceViewSelect+` WHERE pl.product_id = ? ORDER BY l.code`, productID)
}

// ListByLocation balances de todos los productos de una ubicación.
func (r *BalanceRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.BalanceView, error) {
	return r.listViews(ctx, balanceViewSelect+` WHERE pl.location_id = ? ORDER BY p.code`, locationID)
}

func (r *BalanceRepo) listViews(ctx context.Context, query string, args ...any) ([]*entity.BalanceView, error) {
	var rows []balanceViewRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	list := make([]*entity.BalanceView, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.view())
	}
	return list, nil
}
