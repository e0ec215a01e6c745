package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xmlreport"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "stock-ledger-test"
)

var testJWT = pkgjwt.PairConfig{
	AccessSecret:      "test-secret-key-for-unit-tests",
	RefreshSecret:     "test-refresh-secret",
	AccessExpMinutes:  60,
	RefreshExpMinutes: 120,
	Issuer:            testIssuer,
}

// bearer genera un access token válido para testUserID.
func bearer(t *testing.T) string {
	t.Helper()
	pair, err := pkgjwt.GeneratePair(testJWT, testUserID)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeEngine struct {
	created     ledger.CreateMutationInput
	updateCalls int
	err         error
}

func (e *fakeEngine) CreateMutation(_ context.Context, in ledger.CreateMutationInput) (*ledger.MutationResult, error) {
	e.created = in
	if e.err != nil {
		return nil, e.err
	}
	return &ledger.MutationResult{
		Mutation: &entity.Mutation{ID: 1, BalanceID: in.BalanceID, Kind: in.Kind, Amount: in.Amount,
			UserID: in.UserID, Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Balance: &entity.Balance{ID: in.BalanceID, ProductID: "p-1", LocationID: "l-1", Quantity: 5},
	}, nil
}

func (e *fakeEngine) UpdateMutation(context.Context, int64, ledger.UpdateMutationInput) (*ledger.MutationResult, error) {
	e.updateCalls++
	return nil, e.err
}

func (e *fakeEngine) DeleteMutation(context.Context, int64) error { return e.err }

func (e *fakeEngine) SetBalance(context.Context, string, string, int64) (*entity.Balance, error) {
	return nil, e.err
}

func (e *fakeEngine) OverrideBalance(context.Context, int64, int64) (*entity.Balance, error) {
	return nil, e.err
}

func (e *fakeEngine) DeleteBalance(context.Context, int64) error { return e.err }

type fakeMutationRepo struct {
	repository.MutationRepository
	lastF     repository.MutationFilter
	listCalls int
}

func (r *fakeMutationRepo) GetView(context.Context, int64) (*entity.MutationView, error) {
	return nil, nil
}

func (r *fakeMutationRepo) List(_ context.Context, f repository.MutationFilter, _, _ int) ([]*entity.MutationView, error) {
	r.lastF = f
	r.listCalls++
	return nil, nil
}

func (r *fakeMutationRepo) Count(context.Context, repository.MutationFilter) (int, error) {
	return 0, nil
}

type fakeReportRepo struct {
	rows []entity.StockReportRow
}

func (r *fakeReportRepo) StockReport(context.Context, repository.StockReportFilter) ([]entity.StockReportRow, error) {
	return r.rows, nil
}

type memUsers struct {
	byID map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) TouchLastLogin(context.Context, string, time.Time) error { return nil }

// testEnv agrupa la app y los fakes para inspección.
type testEnv struct {
	app       *fiber.App
	engine    *fakeEngine
	mutations *fakeMutationRepo
	reports   *fakeReportRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		engine:    &fakeEngine{},
		mutations: &fakeMutationRepo{},
		reports:   &fakeReportRepo{},
	}
	reportUC := report.NewUseCase(env.mutations, nil, env.reports, nil, xmlreport.NewRenderer(), "Reporte de stock")

	env.app = fiber.New()
	apphttp.Router(env.app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(&memUsers{byID: map[string]*entity.User{}}, testJWT),
		StockUC:    usecase.NewStockUseCase(env.engine, nil),
		MutationUC: usecase.NewMutationUseCase(env.engine),
		ReportUC:   reportUC,
		JWTSecret:  testJWT.AccessSecret,
		Paging:     apphttp.Paging{DefaultLimit: 15, MaxLimit: 100},
	})
	return env
}

// do lanza una petición y devuelve status + cuerpo.
func do(t *testing.T, app *fiber.App, method, path, authHeader, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), "body: %s", raw)
	return e
}
