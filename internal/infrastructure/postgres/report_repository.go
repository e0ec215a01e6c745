package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para el reporte de stock.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockReport agrupa por par producto/ubicación: cantidad actual, entradas y salidas acumuladas y
// rotación (salidas / entradas × 100, 2 decimales; 0 si no hubo entradas).
// El rango de fechas va en el LEFT JOIN para que los pares sin movimientos en el período sigan listados.
func (r *ReportRepo) StockReport(ctx context.Context, f repository.StockReportFilter) ([]entity.StockReportRow, error) {
	query, args := buildStockReportQuery(f)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report.StockReport: %w", err)
	}
	defer rows.Close()

	var results []entity.StockReportRow
	for rows.Next() {
		var row entity.StockReportRow
		if err := rows.Scan(
			&row.ProductID,
			&row.ProductCode,
			&row.ProductName,
			&row.CategoryName,
			&row.LocationID,
			&row.LocationCode,
			&row.LocationName,
			&row.Quantity,
			&row.TotalIn,
			&row.TotalOut,
			&row.RotationPct,
		); err != nil {
			return nil, fmt.Errorf("report.StockReport scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func buildStockReportQuery(f repository.StockReportFilter) (string, []any) {
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	join := "LEFT JOIN mutations m ON m.product_location_id = pl.id"
	if f.From != nil {
		join += " AND m.date >= " + next(*f.From)
	}
	if f.To != nil {
		join += " AND m.date <= " + next(*f.To)
	}

	var conds []string
	if f.ProductID != "" {
		if isUUID(f.ProductID) {
			conds = append(conds, "p.id = "+next(f.ProductID))
		} else {
			conds = append(conds, "FALSE")
		}
	}
	if f.LocationID != "" {
		if isUUID(f.LocationID) {
			conds = append(conds, "l.id = "+next(f.LocationID))
		} else {
			conds = append(conds, "FALSE")
		}
	}
	if f.CategoryID != nil {
		conds = append(conds, "p.category_id = "+next(*f.CategoryID))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := `
	WITH totals AS (
	    SELECT
	        pl.id                                                                   AS balance_id,
	        COALESCE(SUM(CASE WHEN m.kind = 'in'  THEN m.amount ELSE 0 END), 0)::BIGINT AS total_in,
	        COALESCE(SUM(CASE WHEN m.kind = 'out' THEN m.amount ELSE 0 END), 0)::BIGINT AS total_out
	    FROM product_locations pl
	    ` + join + `
	    GROUP BY pl.id
	)
	SELECT
	    p.id, p.code, p.name,
	    COALESCE(c.name, '')                                                        AS category_name,
	    l.id, l.code, l.name,
	    pl.quantity,
	    t.total_in,
	    t.total_out,
	    CASE WHEN t.total_in = 0 THEN 0::NUMERIC
	         ELSE ROUND(t.total_out::NUMERIC * 100 / t.total_in, 2) END           AS rotation_pct
	FROM product_locations pl
	JOIN totals    t ON t.balance_id = pl.id
	JOIN products  p ON p.id = pl.product_id
	JOIN locations l ON l.id = pl.location_id
	LEFT JOIN categories c ON c.id = p.category_id
	` + where + `
	ORDER BY p.code, l.code`
	return query, args
}
