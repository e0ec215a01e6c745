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

var _ repository.MutationRepository = (*MutationRepo)(nil)

// MutationRepo implementación de MutationRepository sobre SQLite.
type MutationRepo struct {
	db DBTX
}

// NewMutationRepository construye el adaptador. Pasar *sqlx.DB o *sqlx.Tx.
func NewMutationRepository(db DBTX) *MutationRepo {
	return &MutationRepo{db: db}
}

const mutationSelect = `
	SELECT id, product_location_id, date, kind, amount, note, user_id, created_at, updated_at FROM mutations`

const mutationViewSelect = `
	SELECT m.id, m.product_location_id, m.date, m.kind, m.amount, m.note, m.user_id, m.created_at, m.updated_at,
	       pl.quantity, p.id AS product_id, p.code AS product_code, p.name AS product_name, p.unit AS product_unit,
	       l.id AS location_id, l.code AS location_code, l.name AS location_name
	FROM mutations m
	JOIN product_locations pl ON pl.id = m.product_location_id
	JOIN products p ON p.id = pl.product_id
	JOIN locations l ON l.id = pl.location_id`

// Create inserta la mutación y rellena ID.
func (r *MutationRepo) Create(ctx context.Context, m *entity.Mutation) error {
	const q = `
		INSERT INTO mutations (product_location_id, date, kind, amount, note, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		m.BalanceID, utc(m.Date), m.Kind, m.Amount, m.Note, m.UserID, utc(m.CreatedAt), utc(m.UpdatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("balance o usuario no encontrado")
		}
		return fmt.Errorf("insert mutation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert mutation id: %w", err)
	}
	m.ID = id
	return nil
}

// GetByID obtiene una mutación; nil si no existe.
func (r *MutationRepo) GetByID(ctx context.Context, id int64) (*entity.Mutation, error) {
	var row mutationRow
	if err := sqlx.GetContext(ctx, r.db, &row, mutationSelect+` WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mutation: %w", err)
	}
	return row.entity(), nil
}

// GetForUpdate relee la mutación; el bloqueo lo da la transacción inmediata.
func (r *MutationRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Mutation, error) {
	return r.GetByID(ctx, id)
}

// Update persiste fecha, tipo, cantidad y nota. El balance asociado no cambia.
func (r *MutationRepo) Update(ctx context.Context, m *entity.Mutation) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE mutations SET date = ?, kind = ?, amount = ?, note = ?, updated_at = ? WHERE id = ?`,
		utc(m.Date), m.Kind, m.Amount, m.Note, utc(m.UpdatedAt), m.ID)
	if err != nil {
		return fmt.Errorf("update mutation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("mutación no encontrada")
	}
	return nil
}

// Delete elimina la mutación.
func (r *MutationRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM mutations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete mutation: %w", err)
	}
	return nil
}

// GetView obtiene una mutación con balance, producto y ubicación.
func (r *MutationRepo) GetView(ctx context.Context, id int64) (*entity.MutationView, error) {
	var row mutationViewRow
	if err := sqlx.GetContext(ctx, r.db, &row, mutationViewSelect+` WHERE m.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mutation view: %w", err)
	}
	return row.view(), nil
}

// List devuelve las mutaciones filtradas, de la más reciente a la más antigua.
func (r *MutationRepo) List(
	ctx context.Context,
	f repository.MutationFilter,
	limit, offset int,
) ([]*entity.MutationView, error) {
	where, args := buildMutationFilter(f)
	lim, off := pageArgs(limit, offset)
	args = append(args, lim, off)

	var rows []mutationViewRow
	query := mutationViewSelect + where + ` ORDER BY m.date DESC, m.id DESC LIMIT ? OFFSET ?`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list mutations: %w", err)
	}
	list := make([]*entity.MutationView, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.view())
	}
	return list, nil
}

// Count total de mutaciones que cumplen el filtro.
func (r *MutationRepo) Count(ctx context.Context, f repository.MutationFilter) (int, error) {
	where, args := buildMutationFilter(f)
	query := `SELECT COUNT(*) FROM mutations m JOIN product_locations pl ON pl.id = m.product_location_id` + where
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count mutations: %w", err)
	}
	return n, nil
}

// Totals suma entradas y salidas de un balance.
func (r *MutationRepo) Totals(ctx context.Context, balanceID int64) (int64, int64, error) {
	const q = `
		SELECT COALESCE(SUM(CASE WHEN kind = 'in' THEN amount ELSE 0 END), 0) AS total_in,
		       COALESCE(SUM(CASE WHEN kind = 'out' THEN amount ELSE 0 END), 0) AS total_out
		FROM mutations WHERE product_location_id = ?`
	var totals struct {
		In  int64 `db:"total_in"`
		Out int64 `db:"total_out"`
	}
	if err := sqlx.GetContext(ctx, r.db, &totals, q, balanceID); err != nil {
		return 0, 0, fmt.Errorf("mutation totals: %w", err)
	}
	return totals.In, totals.Out, nil
}

func buildMutationFilter(f repository.MutationFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Kind != "" {
		conds, args = append(conds, "m.kind = ?"), append(args, f.Kind)
	}
	if f.BalanceID != 0 {
		conds, args = append(conds, "m.product_location_id = ?"), append(args, f.BalanceID)
	}
	if f.ProductID != "" {
		conds, args = append(conds, "pl.product_id = ?"), append(args, f.ProductID)
	}
	if f.LocationID != "" {
		conds, args = append(conds, "pl.location_id = ?"), append(args, f.LocationID)
	}
	if f.UserID != "" {
		conds, args = append(conds, "m.user_id = ?"), append(args, f.UserID)
	}
	if f.From != nil {
		conds, args = append(conds, "m.date >= ?"), append(args, utc(*f.From))
	}
	if f.To != nil {
		conds, args = append(conds, "m.date <= ?"), append(args, utc(*f.To))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
