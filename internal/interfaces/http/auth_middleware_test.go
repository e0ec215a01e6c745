package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

// buildProtectedApp expone GET /protected detrás del AuthMiddleware y devuelve el user_id de los locals.
func buildProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWT.AccessSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c)})
	})
	return app
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	resp, raw := do(t, buildProtectedApp(), http.MethodGet, "/protected", bearer(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), testUserID)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	pair, err := pkgjwt.GeneratePair(pkgjwt.PairConfig{
		AccessSecret: testJWT.AccessSecret, RefreshSecret: testJWT.AccessSecret,
		AccessExpMinutes: 5, RefreshExpMinutes: 5,
	}, testUserID)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"formato inválido", "Token abc", "INVALID_TOKEN"},
		{"firma incorrecta", "Bearer eyJhbGciOiJIUzI1NiJ9.e30.x", "INVALID_TOKEN"},
		{"refresh como access", "Bearer " + pair.RefreshToken, "INVALID_TOKEN"},
	}
	app := buildProtectedApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := do(t, app, http.MethodGet, "/protected", tc.header, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, raw).Code)
		})
	}
}
