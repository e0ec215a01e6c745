package http_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
)

func TestStockReport_JSON(t *testing.T) {
	env := newTestEnv()
	env.reports.rows = []entity.StockReportRow{
		{ProductCode: "TOR-01", Quantity: 2, TotalIn: 3, TotalOut: 1, RotationPct: decimal.RequireFromString("33.33")},
	}

	resp, raw := do(t, env.app, http.MethodGet, "/api/v1/reports/stock?category_id=1", bearer(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), `"net_movement":2`)
	assert.Contains(t, string(raw), `"rotation_pct":"33.33"`)

	resp, _ = do(t, env.app, http.MethodGet, "/api/v1/reports/stock?start_date=2024-02-01&end_date=2024-01-01", bearer(t), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStockReport_XMLDigestHeader(t *testing.T) {
	env := newTestEnv()
	env.reports.rows = []entity.StockReportRow{{ProductCode: "TOR-01", Quantity: 1, TotalIn: 1}}

	resp, raw := do(t, env.app, http.MethodGet, "/api/v1/reports/stock/xml", bearer(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderReportDigest))
	assert.Contains(t, resp.Header.Get("Content-Type"), "xml")
	assert.Contains(t, string(raw), "<StockReport")
}

func TestStockReport_PDFNotConfigured(t *testing.T) {
	env := newTestEnv()
	resp, raw := do(t, env.app, http.MethodGet, "/api/v1/reports/stock/pdf", bearer(t), "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInternal, decodeError(t, raw).Code)
}
