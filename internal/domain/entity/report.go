package entity

import "github.com/shopspring/decimal"

// StockReportRow fila del reporte de stock agrupado por par producto/ubicación.
type StockReportRow struct {
	ProductID    string
	ProductCode  string
	ProductName  string
	CategoryName string // vacío si el producto no tiene categoría
	LocationID   string
	LocationCode string
	LocationName string
	Quantity     int64
	TotalIn      int64
	TotalOut     int64
	RotationPct  decimal.Decimal // TotalOut / TotalIn * 100, 2 decimales
}

// NetMovement es la diferencia entre entradas y salidas del período consultado.
func (r StockReportRow) NetMovement() int64 {
	return r.TotalIn - r.TotalOut
}
