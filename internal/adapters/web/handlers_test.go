package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledger-insight/internal/app"
	"ledger-insight/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService satisfies app.ApplicationService with canned responses.
type fakeService struct {
	incomeErr error
}

func (f *fakeService) GetIncomeStatement(_ context.Context, req core.IncomeStatementRequest) (*core.IncomeStatement, error) {
	if f.incomeErr != nil {
		return nil, f.incomeErr
	}
	return &core.IncomeStatement{
		Company:     core.Company{ID: req.CompanyID, Code: "1000", Name: "Demo Co"},
		Year:        req.Year,
		Month:       req.Month,
		PeriodLabel: "2026/03",
		Rows: []core.IncomeStatementRow{
			{Key: core.CategoryRevenue, Label: "Revenue", Amount: decimal.NewFromInt(10000)},
		},
	}, nil
}

func (f *fakeService) GetBalanceSheet(_ context.Context, req core.BalanceSheetRequest) (*core.BalanceSheet, error) {
	return &core.BalanceSheet{
		Company:  core.Company{ID: req.CompanyID, Code: "1000", Name: "Demo Co"},
		AsOf:     req.AsOf,
		Balanced: true,
	}, nil
}

func (f *fakeService) GetAccountBalance(context.Context, int, string, time.Time, time.Time) (*core.BalanceResult, error) {
	return &core.BalanceResult{Closing: decimal.NewFromInt(1300)}, nil
}

func (f *fakeService) ListAccountMovements(context.Context, int, string, time.Time, time.Time, core.Side) ([]core.Movement, error) {
	return nil, nil
}

func (f *fakeService) SearchVouchers(context.Context, int, core.VoucherFilter) (*core.InquiryResult, error) {
	return &core.InquiryResult{}, nil
}

func (f *fakeService) GetDashboard(context.Context, core.DashboardRequest) (*core.Dashboard, error) {
	return &core.Dashboard{}, nil
}

func (f *fakeService) AskDataQuestion(context.Context, app.AskRequest) (*app.AskResult, error) {
	return nil, app.ErrAssistantUnavailable
}

func (f *fakeService) InvalidateReportCache(context.Context) error { return nil }

func (f *fakeService) ListCompanies(context.Context) ([]core.Company, error) {
	return []core.Company{{ID: 1, Code: "1000", Name: "Demo Co"}}, nil
}

func (f *fakeService) ListAccounts(context.Context) ([]core.Account, error) { return nil, nil }

func (f *fakeService) ListEmployees(context.Context) ([]core.Employee, error) { return nil, nil }

func (f *fakeService) AuthenticateUser(_ context.Context, username, password string) (*app.UserSession, error) {
	if username == "alex" && password == "secret" {
		return &app.UserSession{UserID: 1, CompanyID: 1, Username: "alex", Role: "accountant"}, nil
	}
	return nil, core.ErrUserNotFound
}

func (f *fakeService) GetUser(context.Context, int) (*app.UserResult, error) {
	return &app.UserResult{UserID: 1, Username: "alex"}, nil
}

func newTestHandler(svc app.ApplicationService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(svc, logger, nil, "test-secret", time.Hour)
}

// loginCookie authenticates against the handler and returns the session cookie.
func loginCookie(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alex","password":"secret"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" {
			return c
		}
	}
	t.Fatal("no auth_token cookie set")
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(&fakeService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newTestHandler(&fakeService{})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alex","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	h := newTestHandler(&fakeService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIncomeStatementJSON(t *testing.T) {
	h := newTestHandler(&fakeService{})
	cookie := loginCookie(t, h)

	req := httptest.NewRequest(http.MethodGet,
		"/api/reports/income-statement?company_id=1&year=2026&month=3", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var report core.IncomeStatement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "2026/03", report.PeriodLabel)
	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].Amount.Equal(decimal.NewFromInt(10000)))
}

func TestIncomeStatementCSV(t *testing.T) {
	h := newTestHandler(&fakeService{})
	cookie := loginCookie(t, h)

	req := httptest.NewRequest(http.MethodGet,
		"/api/reports/income-statement?company_id=1&year=2026&month=3&format=csv", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "income_statement_2026_03.csv")
	assert.Contains(t, rec.Body.String(), "Revenue,10000.00")
}

func TestIncomeStatementParamValidation(t *testing.T) {
	h := newTestHandler(&fakeService{})
	cookie := loginCookie(t, h)

	for _, url := range []string{
		"/api/reports/income-statement?year=2026&month=3",
		"/api/reports/income-statement?company_id=1&month=3",
		"/api/reports/income-statement?company_id=0&year=2026&month=3",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	h := newTestHandler(&fakeService{incomeErr: core.ErrCompanyNotFound})
	cookie := loginCookie(t, h)

	req := httptest.NewRequest(http.MethodGet,
		"/api/reports/income-statement?company_id=9&year=2026&month=3", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "COMPANY_NOT_FOUND")
}

func TestAskUnavailableMapsTo503(t *testing.T) {
	h := newTestHandler(&fakeService{})
	cookie := loginCookie(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/ask",
		strings.NewReader(`{"company_id":1,"year":2026,"month":3,"question":"What was revenue?"}`))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBalanceSheetRequiresAsOf(t *testing.T) {
	h := newTestHandler(&fakeService{})
	cookie := loginCookie(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/balance-sheet?company_id=1", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
