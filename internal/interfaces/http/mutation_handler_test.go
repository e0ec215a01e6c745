package http_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
)

func TestCreateMutation_UsesAuthenticatedUser(t *testing.T) {
	env := newTestEnv()
	resp, raw := do(t, env.app, http.MethodPost, "/api/v1/mutations", bearer(t),
		`{"product_location_id":3,"type":"in","amount":5,"date":"2024-01-02"}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Equal(t, testUserID, env.engine.created.UserID)
	assert.Equal(t, int64(3), env.engine.created.BalanceID)
	assert.Contains(t, string(raw), `"current_quantity":5`)
	assert.Contains(t, string(raw), `"date":"2024-01-02"`)
}

func TestCreateMutation_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"balance inexistente", domain.NotFound("balance no encontrado"), http.StatusNotFound, apphttp.CodeNotFound},
		{"stock insuficiente", domain.InsufficientStock("stock insuficiente"), http.StatusConflict, apphttp.CodeInsufficientStock},
		{"operación inválida", domain.InvalidOperation("la cantidad debe ser mayor que cero"), http.StatusUnprocessableEntity, apphttp.CodeInvalidOperation},
		{"almacenamiento", domain.Storage(errors.New("pq: connection reset by peer")), http.StatusServiceUnavailable, apphttp.CodeStorage},
		{"no controlado", errors.New("boom"), http.StatusInternalServerError, apphttp.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			env.engine.err = tc.err
			resp, raw := do(t, env.app, http.MethodPost, "/api/v1/mutations", bearer(t),
				`{"product_location_id":1,"type":"out","amount":15}`)
			assert.Equal(t, tc.status, resp.StatusCode)
			e := decodeError(t, raw)
			assert.Equal(t, tc.code, e.Code)
			assert.NotContains(t, e.Message, "connection reset")
			assert.NotContains(t, e.Message, "boom")
		})
	}
}

func TestCreateMutation_Validation(t *testing.T) {
	env := newTestEnv()
	cases := map[string]string{
		"cuerpo inválido":   `{"product_location_id":`,
		"sin type":          `{"product_location_id":1,"amount":1}`,
		"sin balance":       `{"type":"in","amount":1}`,
		"fecha mal formada": `{"product_location_id":1,"type":"in","amount":1,"date":"02/01/2024"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, _ := do(t, env.app, http.MethodPost, "/api/v1/mutations", bearer(t), body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCreateMutation_TypeAndAmountValidation(t *testing.T) {
	env := newTestEnv()
	cases := map[string]string{
		"type desconocido": `{"product_location_id":1,"type":"sideways","amount":1}`,
		"amount cero":      `{"product_location_id":1,"type":"in","amount":0}`,
		"amount negativo":  `{"product_location_id":1,"type":"out","amount":-3}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, raw := do(t, env.app, http.MethodPost, "/api/v1/mutations", bearer(t), body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, apphttp.CodeValidation, decodeError(t, raw).Code)
		})
	}
	assert.Zero(t, env.engine.created.BalanceID, "el motor no debe recibir entradas inválidas")
}

func TestUpdateMutation_Validation(t *testing.T) {
	env := newTestEnv()
	cases := map[string]string{
		"type desconocido": `{"type":"sideways"}`,
		"amount cero":      `{"amount":0}`,
		"amount negativo":  `{"amount":-1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, raw := do(t, env.app, http.MethodPut, "/api/v1/mutations/1", bearer(t), body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, apphttp.CodeValidation, decodeError(t, raw).Code)
		})
	}
	assert.Zero(t, env.engine.updateCalls)
}

func TestMutationRoutes_FixedPathsBeforeID(t *testing.T) {
	env := newTestEnv()

	resp, raw := do(t, env.app, http.MethodGet, "/api/v1/mutations/user/histories?limit=500", bearer(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, testUserID, env.mutations.lastF.UserID)
	assert.Contains(t, string(raw), `"limit":100`)

	resp, _ = do(t, env.app, http.MethodGet, "/api/v1/mutations/product/p-9/histories", bearer(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "p-9", env.mutations.lastF.ProductID)

	resp, _ = do(t, env.app, http.MethodGet, "/api/v1/mutations/range", bearer(t), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, env.app, http.MethodGet, "/api/v1/mutations/range?start_date=2024-01-01&end_date=2024-01-31", bearer(t), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = do(t, env.app, http.MethodGet, "/api/v1/mutations/42", bearer(t), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, decodeError(t, raw).Code)
}

func TestListMutations_TypeFilterVsPaginated(t *testing.T) {
	env := newTestEnv()

	resp, raw := do(t, env.app, http.MethodGet, "/api/v1/mutations?type=out&start_date=2024-01-01", bearer(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "out", env.mutations.lastF.Kind)
	assert.NotContains(t, string(raw), `"page"`)

	resp, raw = do(t, env.app, http.MethodGet, "/api/v1/mutations", bearer(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"limit":15`)

	resp, _ = do(t, env.app, http.MethodGet, "/api/v1/mutations?type=transfer", bearer(t), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMutationRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv()
	resp, _ := do(t, env.app, http.MethodGet, "/api/v1/mutations", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
