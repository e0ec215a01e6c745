package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const (
	productUUID  = "6f1c2a4e-9b3d-4f7a-8c21-0d5e6b7a8c90"
	locationUUID = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	userUUID     = "00000000-0000-0000-0000-000000000001"
)

func TestBuildMutationFilter_Vacio(t *testing.T) {
	where, args := buildMutationFilter(repository.MutationFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildMutationFilter_TodosLosCampos(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	where, args := buildMutationFilter(repository.MutationFilter{
		Kind:       "out",
		BalanceID:  9,
		ProductID:  productUUID,
		LocationID: locationUUID,
		UserID:     userUUID,
		From:       &from,
		To:         &to,
	})

	assert.Equal(t,
		" WHERE m.kind = $1 AND m.product_location_id = $2 AND pl.product_id = $3 AND pl.location_id = $4"+
			" AND m.user_id = $5 AND m.date >= $6 AND m.date <= $7",
		where)
	assert.Equal(t, []any{"out", int64(9), productUUID, locationUUID, userUUID, from, to}, args)
}

func TestBuildMutationFilter_NumeracionContinua(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildMutationFilter(repository.MutationFilter{UserID: userUUID, From: &from})

	assert.Equal(t, " WHERE m.user_id = $1 AND m.date >= $2", where)
	assert.Len(t, args, 2)
}

func TestPageArgs(t *testing.T) {
	lim, off := pageArgs(0, -3)
	assert.Nil(t, lim)
	assert.Equal(t, 0, off)

	lim, off = pageArgs(15, 30)
	assert.Equal(t, 15, lim)
	assert.Equal(t, 30, off)
}

func TestBuildProductFilter(t *testing.T) {
	cat := int64(3)
	where, args := buildProductFilter(repository.ProductFilter{CategoryID: &cat, Search: " tornillo ", WithStock: true})

	assert.Equal(t,
		" WHERE p.category_id = $1 AND (p.name ILIKE $2 OR p.code ILIKE $2)"+
			" AND EXISTS (SELECT 1 FROM product_locations pl WHERE pl.product_id = p.id AND pl.quantity > 0)",
		where)
	assert.Equal(t, []any{int64(3), "%tornillo%"}, args)
}

func TestBuildStockReportQuery_RangoEnElJoin(t *testing.T) {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	cat := int64(4)

	query, args := buildStockReportQuery(repository.StockReportFilter{
		LocationID: locationUUID,
		CategoryID: &cat,
		From:       &from,
	})

	assert.Contains(t, query, "LEFT JOIN mutations m ON m.product_location_id = pl.id AND m.date >= $1")
	assert.Contains(t, query, "WHERE l.id = $2 AND p.category_id = $3")
	assert.NotContains(t, query, "m.date <=")
	assert.Equal(t, []any{from, locationUUID, int64(4)}, args)
}

func TestBuildStockReportQuery_SinFiltros(t *testing.T) {
	query, args := buildStockReportQuery(repository.StockReportFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestBuildMutationFilter_IDNoUUIDNoCoincide(t *testing.T) {
	where, args := buildMutationFilter(repository.MutationFilter{Kind: "in", ProductID: "abc", UserID: userUUID})

	assert.Equal(t, " WHERE m.kind = $1 AND FALSE AND m.user_id = $2", where)
	assert.Equal(t, []any{"in", userUUID}, args)
}

func TestBuildStockReportQuery_IDNoUUIDNoCoincide(t *testing.T) {
	query, args := buildStockReportQuery(repository.StockReportFilter{ProductID: "abc", LocationID: locationUUID})

	assert.Contains(t, query, "WHERE FALSE AND l.id = $1")
	assert.Equal(t, []any{locationUUID}, args)
}
