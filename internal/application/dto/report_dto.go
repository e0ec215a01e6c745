package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReportRequest filtros del reporte de stock (query string). Fechas en formato 2006-01-02.
type StockReportRequest struct {
	ProductID  string `query:"product_id" json:"product_id,omitempty"`
	LocationID string `query:"location_id" json:"location_id,omitempty"`
	CategoryID int64  `query:"category_id" json:"category_id,omitempty"`
	From       string `query:"start_date" json:"start_date,omitempty"`
	To         string `query:"end_date" json:"end_date,omitempty"`
}

// StockReportRowDTO fila del reporte por par producto/ubicación.
type StockReportRowDTO struct {
	ProductID    string          `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	CategoryName string          `json:"category_name"`
	LocationID   string          `json:"location_id"`
	LocationCode string          `json:"location_code"`
	LocationName string          `json:"location_name"`
	Quantity     int64           `json:"current_stock"`
	TotalIn      int64           `json:"total_in"`
	TotalOut     int64           `json:"total_out"`
	NetMovement  int64           `json:"net_movement"` // TotalIn - TotalOut
	RotationPct  decimal.Decimal `json:"rotation_pct"` // TotalOut / TotalIn * 100
}

// StockReportTotalsDTO totales generales del reporte.
type StockReportTotalsDTO struct {
	Pairs       int             `json:"pairs"`
	Quantity    int64           `json:"current_stock"`
	TotalIn     int64           `json:"total_in"`
	TotalOut    int64           `json:"total_out"`
	NetMovement int64           `json:"net_movement"`
	RotationPct decimal.Decimal `json:"rotation_pct"`
}

// StockReportDTO reporte completo: filtros aplicados, filas y totales.
type StockReportDTO struct {
	Title       string               `json:"title"`
	GeneratedAt time.Time            `json:"generated_at"`
	Filters     StockReportRequest   `json:"filters"`
	Rows        []StockReportRowDTO  `json:"rows"`
	Totals      StockReportTotalsDTO `json:"totals"`
}
