package xmlreport_test

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xmlreport"
)

func sampleReport() *dto.StockReportDTO {
	return &dto.StockReportDTO{
		Title:       "Reporte de stock",
		GeneratedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Filters:     dto.StockReportRequest{CategoryID: 2},
		Rows: []dto.StockReportRowDTO{{
			ProductID: "p-1", ProductCode: "TOR-01", ProductName: "Tornillo & tuerca",
			LocationID: "l-1", LocationCode: "BOD-A", LocationName: "Bodega A",
			Quantity: 7, TotalIn: 10, TotalOut: 3, NetMovement: 7, RotationPct: decimal.NewFromInt(30),
		}},
		Totals: dto.StockReportTotalsDTO{Pairs: 1, Quantity: 7, TotalIn: 10, TotalOut: 3, NetMovement: 7,
			RotationPct: decimal.NewFromInt(30)},
	}
}

func TestRenderStockReport_Structure(t *testing.T) {
	out, digest, err := xmlreport.NewRenderer().RenderStockReport(sampleReport())
	require.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.True(t, bytes.HasPrefix(out, []byte(xml.Header)))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "StockReport", root.Tag)
	assert.Equal(t, "2", root.FindElement("Filters").SelectAttrValue("categoryId", ""))

	row := root.FindElement("Rows/Row")
	require.NotNil(t, row)
	assert.Equal(t, "Tornillo & tuerca", row.FindElement("ProductName").Text())
	assert.Equal(t, "30.00", row.FindElement("RotationPct").Text())
	assert.Equal(t, "1", root.FindElement("Totals").SelectAttrValue("pairs", ""))
}

func TestRenderStockReport_DigestStable(t *testing.T) {
	r := xmlreport.NewRenderer()
	_, d1, err := r.RenderStockReport(sampleReport())
	require.NoError(t, err)
	_, d2, err := r.RenderStockReport(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	changed := sampleReport()
	changed.Rows[0].Quantity = 8
	_, d3, err := r.RenderStockReport(changed)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestDigest_Canonical(t *testing.T) {
	a, err := xmlreport.Digest([]byte(`<r b="2" a="1"><x></x></r>`))
	require.NoError(t, err)
	b, err := xmlreport.Digest([]byte(`<r a="1" b="2"><x/></r>`))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = xmlreport.Digest([]byte(`<r><x></r>`))
	assert.Error(t, err)
}
