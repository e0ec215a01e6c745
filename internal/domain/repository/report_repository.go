package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockReportFilter filtros del reporte de stock. From/To solo restringen las mutaciones sumadas,
// no los pares listados.
type StockReportFilter struct {
	ProductID  string
	LocationID string
	CategoryID *int64
	From       *time.Time
	To         *time.Time
}

// ReportRepository define las consultas de lectura del reporte de stock.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	// StockReport agrupa por par producto/ubicación con totales de entradas y salidas,
	// ordenado por código de producto y código de ubicación.
	StockReport(ctx context.Context, f StockReportFilter) ([]entity.StockReportRow, error)
}
