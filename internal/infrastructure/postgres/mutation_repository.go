package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MutationRepository = (*MutationRepo)(nil)

// MutationRepo implementación de MutationRepository sobre PostgreSQL (usable con pool o tx).
type MutationRepo struct {
	q Querier
}

// NewMutationRepository construye el adaptador de mutaciones. Pasar pool o tx (Querier).
func NewMutationRepository(q Querier) *MutationRepo {
	return &MutationRepo{q: q}
}

const mutationColumns = `id, product_location_id, date, kind, amount, note, user_id, created_at, updated_at`

const mutationViewSelect = `
	SELECT m.id, m.product_location_id, m.date, m.kind, m.amount, m.note, m.user_id, m.created_at, m.updated_at,
	       pl.quantity, p.id, p.code, p.name, p.unit, l.id, l.code, l.name
	FROM mutations m
	JOIN product_locations pl ON pl.id = m.product_location_id
	JOIN products p ON p.id = pl.product_id
	JOIN locations l ON l.id = pl.location_id`

func scanMutation(row pgx.Row) (*entity.Mutation, error) {
	var m entity.Mutation
	if err := row.Scan(
		&m.ID, &m.BalanceID, &m.Date, &m.Kind, &m.Amount, &m.Note, &m.UserID, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMutationView(row pgx.Row) (*entity.MutationView, error) {
	var v entity.MutationView
	if err := row.Scan(
		&v.ID, &v.BalanceID, &v.Date, &v.Kind, &v.Amount, &v.Note, &v.UserID, &v.CreatedAt, &v.UpdatedAt,
		&v.Quantity, &v.ProductID, &v.ProductCode, &v.ProductName, &v.ProductUnit,
		&v.LocationID, &v.LocationCode, &v.LocationName,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserta la mutación y rellena ID.
func (r *MutationRepo) Create(ctx context.Context, m *entity.Mutation) error {
	query := `
		INSERT INTO mutations (product_location_id, date, kind, amount, note, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.BalanceID, m.Date, m.Kind, m.Amount, m.Note, m.UserID, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("balance o usuario no encontrado")
		}
		return fmt.Errorf("insert mutation: %w", err)
	}
	return nil
}

// GetByID obtiene una mutación; nil si no existe.
func (r *MutationRepo) GetByID(ctx context.Context, id int64) (*entity.Mutation, error) {
	m, err := scanMutation(r.q.QueryRow(ctx, `SELECT `+mutationColumns+` FROM mutations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mutation: %w", err)
	}
	return m, nil
}

// GetForUpdate relee la mutación bloqueando su fila.
func (r *MutationRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Mutation, error) {
	m, err := scanMutation(r.q.QueryRow(ctx,
		`SELECT `+mutationColumns+` FROM mutations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mutation for update: %w", err)
	}
	return m, nil
}

// Update persiste fecha, tipo, cantidad y nota. El balance asociado no cambia.
func (r *MutationRepo) Update(ctx context.Context, m *entity.Mutation) error {
	query := `
		UPDATE mutations SET date = $2, kind = $3, amount = $4, note = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.Date, m.Kind, m.Amount, m.Note, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update mutation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("mutación no encontrada")
	}
	return nil
}

// Delete elimina la mutación.
func (r *MutationRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM mutations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete mutation: %w", err)
	}
	return nil
}

// GetView obtiene una mutación con balance, producto y ubicación.
func (r *MutationRepo) GetView(ctx context.Context, id int64) (*entity.MutationView, error) {
	v, err := scanMutationView(r.q.QueryRow(ctx, mutationViewSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mutation view: %w", err)
	}
	return v, nil
}

// List devuelve las mutaciones filtradas, de la más reciente a la más antigua.
func (r *MutationRepo) List(
	ctx context.Context,
	f repository.MutationFilter,
	limit, offset int,
) ([]*entity.MutationView, error) {
	where, args := buildMutationFilter(f)
	lim, off := pageArgs(limit, offset)
	n := len(args)
	query := mutationViewSelect + where +
		` ORDER BY m.date DESC, m.id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, lim, off)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mutations: %w", err)
	}
	defer rows.Close()
	var list []*entity.MutationView
	for rows.Next() {
		v, err := scanMutationView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Count total de mutaciones que cumplen el filtro.
func (r *MutationRepo) Count(ctx context.Context, f repository.MutationFilter) (int, error) {
	where, args := buildMutationFilter(f)
	query := `
		SELECT COUNT(*) FROM mutations m
		JOIN product_locations pl ON pl.id = m.product_location_id` + where
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count mutations: %w", err)
	}
	return n, nil
}

// Totals suma entradas y salidas de un balance.
func (r *MutationRepo) Totals(ctx context.Context, balanceID int64) (int64, int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'in' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN kind = 'out' THEN amount ELSE 0 END), 0)
		FROM mutations WHERE product_location_id = $1`
	var totalIn, totalOut int64
	if err := r.q.QueryRow(ctx, query, balanceID).Scan(&totalIn, &totalOut); err != nil {
		return 0, 0, fmt.Errorf("mutation totals: %w", err)
	}
	return totalIn, totalOut, nil
}

// buildMutationFilter arma el WHERE (con placeholders $n) sobre los alias m y pl.
// Devuelve "" si el filtro está vacío.
func buildMutationFilter(f repository.MutationFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	// Un valor que no es UUID no coincide con ninguna fila.
	addUUID := func(cond, value string) {
		if !isUUID(value) {
			conds = append(conds, "FALSE")
			return
		}
		add(cond, value)
	}

	if f.Kind != "" {
		add("m.kind = ?", f.Kind)
	}
	if f.BalanceID != 0 {
		add("m.product_location_id = ?", f.BalanceID)
	}
	if f.ProductID != "" {
		addUUID("pl.product_id = ?", f.ProductID)
	}
	if f.LocationID != "" {
		addUUID("pl.location_id = ?", f.LocationID)
	}
	if f.UserID != "" {
		addUUID("m.user_id = ?", f.UserID)
	}
	if f.From != nil {
		add("m.date >= ?", *f.From)
	}
	if f.To != nil {
		add("m.date <= ?", *f.To)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
