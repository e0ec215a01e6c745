// Package pdf genera la representación gráfica del reporte de stock.
//
// Layout de la página A4 (horizontal):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación │ filtros aplicados    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Categoría | Ubicación | Stock    │
//	│         | Entradas | Salidas | Neto | Rotación               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES                                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportPDF implementa report.PDFRenderer usando Maroto v2.
type StockReportPDF struct {
	printer *message.Printer
}

var _ report.PDFRenderer = (*StockReportPDF)(nil)

// NewStockReportPDF construye el generador; los números se formatean con separadores en español.
func NewStockReportPDF() *StockReportPDF {
	return &StockReportPDF{printer: message.NewPrinter(language.Spanish)}
}

// RenderStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportPDF) RenderStockReport(r *dto.StockReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, rr := range g.tableRows(r.Rows) {
		m.AddRows(rr)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(r.Totals))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.StockReportDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(describeFilters(r.Filters), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 1, align.Left),
		h("Producto", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Ubicación", 2, align.Left),
		h("Stock", 1, align.Right),
		h("Entradas", 1, align.Right),
		h("Salidas", 1, align.Right),
		h("Rotación", 1, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *StockReportPDF) tableRows(rows []dto.StockReportRowDTO) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(7).Add(
			cell(r.ProductCode, 1, align.Left),
			cell(r.ProductName, 3, align.Left),
			cell(nonEmpty(r.CategoryName, "—"), 2, align.Left),
			cell(r.LocationCode+" · "+r.LocationName, 2, align.Left),
			cell(g.number(r.Quantity), 1, align.Right),
			cell(g.number(r.TotalIn), 1, align.Right),
			cell(g.number(r.TotalOut), 1, align.Right),
			cell(r.RotationPct.StringFixed(2)+"%", 1, align.Right),
		))
	}
	return result
}

func (g *StockReportPDF) totalsRow(t dto.StockReportTotalsDTO) core.Row {
	bold := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Color: colorPrimary, Top: 1, Right: 1,
		}))
	}
	return row.New(10).Add(
		bold(fmt.Sprintf("TOTAL (%d pares) · neto %s", t.Pairs, g.number(t.NetMovement)), 8, align.Left),
		bold(g.number(t.Quantity), 1, align.Right),
		bold(g.number(t.TotalIn), 1, align.Right),
		bold(g.number(t.TotalOut), 1, align.Right),
		bold(t.RotationPct.StringFixed(2)+"%", 1, align.Right),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// number formatea un entero con separador de miles (es: 1.234.567).
func (g *StockReportPDF) number(n int64) string {
	return g.printer.Sprintf("%d", n)
}

func describeFilters(f dto.StockReportRequest) string {
	var parts []string
	if f.ProductID != "" {
		parts = append(parts, "Producto: "+f.ProductID)
	}
	if f.LocationID != "" {
		parts = append(parts, "Ubicación: "+f.LocationID)
	}
	if f.CategoryID > 0 {
		parts = append(parts, fmt.Sprintf("Categoría: %d", f.CategoryID))
	}
	if f.From != "" || f.To != "" {
		parts = append(parts, fmt.Sprintf("Período: %s a %s", nonEmpty(f.From, "inicio"), nonEmpty(f.To, "hoy")))
	}
	if len(parts) == 0 {
		return "Sin filtros"
	}
	return strings.Join(parts, "\n")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
