package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
)

func TestAuthFlow(t *testing.T) {
	env := newTestEnv()

	resp, raw := do(t, env.app, http.MethodPost, "/api/v1/auth/register", "",
		`{"name":"Ana","email":"ana@example.com","password":"secreto123"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = do(t, env.app, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"ana@example.com","password":"secreto123"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeEmailExists, decodeError(t, raw).Code)

	resp, raw = do(t, env.app, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"ana@example.com","password":"secreto123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &tok))
	assert.Equal(t, "Bearer", tok.TokenType)

	resp, raw = do(t, env.app, http.MethodGet, "/api/v1/auth/profile", "Bearer "+tok.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), "ana@example.com")

	resp, raw = do(t, env.app, http.MethodPost, "/api/v1/auth/refresh", "",
		`{"refresh_token":"`+tok.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = do(t, env.app, http.MethodPost, "/api/v1/auth/validate", "", `{"token":"`+tok.AccessToken+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"valid":true`)

	resp, _ = do(t, env.app, http.MethodPost, "/api/v1/auth/logout", "Bearer "+tok.AccessToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv()
	_, _ = do(t, env.app, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"ana@example.com","password":"secreto123"}`)

	resp, raw := do(t, env.app, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"ana@example.com","password":"otra-clave"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, decodeError(t, raw).Code)
}
