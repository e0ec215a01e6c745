package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
)

func TestStockHandler_Validation(t *testing.T) {
	env := newTestEnv()

	resp, _ := do(t, env.app, http.MethodPost, "/api/v1/stock", bearer(t), `{"product_id":"p-1","location_id":"l-1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, env.app, http.MethodPut, "/api/v1/stock/abc", bearer(t), `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, env.app, http.MethodPut, "/api/v1/stock/1", bearer(t), `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStockHandler_EngineRejections(t *testing.T) {
	env := newTestEnv()

	env.engine.err = domain.InvalidOperation("la cantidad no puede ser negativa")
	resp, raw := do(t, env.app, http.MethodPost, "/api/v1/stock", bearer(t),
		`{"product_id":"p-1","location_id":"l-1","quantity":-1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidOperation, decodeError(t, raw).Code)

	env.engine.err = domain.NotFound("balance no encontrado")
	resp, _ = do(t, env.app, http.MethodDelete, "/api/v1/stock/9", bearer(t), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.engine.err = nil
	resp, _ = do(t, env.app, http.MethodDelete, "/api/v1/stock/9", bearer(t), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
