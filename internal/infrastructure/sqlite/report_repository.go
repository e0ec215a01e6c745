package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo reporte de stock sobre SQLite.
type ReportRepo struct {
	db DBTX
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(db DBTX) *ReportRepo {
	return &ReportRepo{db: db}
}

type stockReportRow struct {
	ProductID    string          `db:"product_id"`
	ProductCode  string          `db:"product_code"`
	ProductName  string          `db:"product_name"`
	CategoryName string          `db:"category_name"`
	LocationID   string          `db:"location_id"`
	LocationCode string          `db:"location_code"`
	LocationName string          `db:"location_name"`
	Quantity     int64           `db:"quantity"`
	TotalIn      int64           `db:"total_in"`
	TotalOut     int64           `db:"total_out"`
	RotationPct  decimal.Decimal `db:"rotation_pct"`
}

// StockReport misma semántica que la versión PostgreSQL: el rango de fechas solo limita las mutaciones sumadas.
func (r *ReportRepo) StockReport(ctx context.Context, f repository.StockReportFilter) ([]entity.StockReportRow, error) {
	var args []any
	join := "LEFT JOIN mutations m ON m.product_location_id = pl.id"
	if f.From != nil {
		join += " AND m.date >= ?"
		args = append(args, utc(*f.From))
	}
	if f.To != nil {
		join += " AND m.date <= ?"
		args = append(args, utc(*f.To))
	}

	var conds []string
	if f.ProductID != "" {
		conds, args = append(conds, "p.id = ?"), append(args, f.ProductID)
	}
	if f.LocationID != "" {
		conds, args = append(conds, "l.id = ?"), append(args, f.LocationID)
	}
	if f.CategoryID != nil {
		conds, args = append(conds, "p.category_id = ?"), append(args, *f.CategoryID)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := `
	SELECT
	    p.id AS product_id, p.code AS product_code, p.name AS product_name,
	    COALESCE(c.name, '') AS category_name,
	    l.id AS location_id, l.code AS location_code, l.name AS location_name,
	    pl.quantity AS quantity,
	    t.total_in AS total_in,
	    t.total_out AS total_out,
	    CASE WHEN t.total_in = 0 THEN 0
	         ELSE ROUND(CAST(t.total_out AS REAL) * 100 / t.total_in, 2) END AS rotation_pct
	FROM product_locations pl
	JOIN (
	    SELECT pl.id AS balance_id,
	           COALESCE(SUM(CASE WHEN m.kind = 'in'  THEN m.amount ELSE 0 END), 0) AS total_in,
	           COALESCE(SUM(CASE WHEN m.kind = 'out' THEN m.amount ELSE 0 END), 0) AS total_out
	    FROM product_locations pl
	    ` + join + `
	    GROUP BY pl.id
	) t ON t.balance_id = pl.id
	JOIN products p ON p.id = pl.product_id
	JOIN locations l ON l.id = pl.location_id
	LEFT JOIN categories c ON c.id = p.category_id
	` + where + `
	ORDER BY p.code, l.code`

	var rows []stockReportRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("report.StockReport: %w", err)
	}
	out := make([]entity.StockReportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.StockReportRow(row))
	}
	return out, nil
}
