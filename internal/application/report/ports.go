package report

import "github.com/jhoicas/stock-ledger/internal/application/dto"

// PDFRenderer genera el PDF del reporte de stock.
type PDFRenderer interface {
	RenderStockReport(r *dto.StockReportDTO) ([]byte, error)
}

// XMLRenderer genera el XML del reporte de stock y su digest (SHA-256 en base64 del XML canónico).
type XMLRenderer interface {
	RenderStockReport(r *dto.StockReportDTO) (doc []byte, digest string, err error)
}
