package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-insight/internal/cache"
	"ledger-insight/internal/core"
)

// ErrAssistantUnavailable is returned when no OpenAI key is configured.
var ErrAssistantUnavailable = errors.New("data assistant not configured")

type appService struct {
	gateway     core.LedgerGateway
	balances    *core.BalanceService
	income      *core.IncomeStatementService
	balanceSht  *core.BalanceSheetService
	dashboard   *core.DashboardService
	inquiry     *core.VoucherInquiryService
	users       core.UserService
	agent       AgentService
	reportCache *cache.Cache
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent and reportCache may be nil; the facade degrades gracefully
// (assistant returns ErrAssistantUnavailable, reports skip caching).
func NewAppService(gateway core.LedgerGateway, users core.UserService, agent AgentService, reportCache *cache.Cache) ApplicationService {
	return &appService{
		gateway:     gateway,
		balances:    core.NewBalanceService(gateway),
		income:      core.NewIncomeStatementService(gateway),
		balanceSht:  core.NewBalanceSheetService(gateway),
		dashboard:   core.NewDashboardService(gateway),
		inquiry:     core.NewVoucherInquiryService(gateway),
		users:       users,
		agent:       agent,
		reportCache: reportCache,
	}
}

// GetIncomeStatement returns the comparative monthly income statement,
// read through the report cache.
func (s *appService) GetIncomeStatement(ctx context.Context, req core.IncomeStatementRequest) (*core.IncomeStatement, error) {
	// Partial reports carry warnings that must not be served stale.
	if req.AllowPartial || s.reportCache == nil {
		return s.income.Generate(ctx, req)
	}

	key, err := s.reportCache.BuildKey(ctx, cache.IncomeStatementKey(req.CompanyID, req.Year, req.Month, req.CompareLastYear, req.CompareLastMonth)...)
	if err != nil {
		return nil, fmt.Errorf("build cache key: %w", err)
	}
	var report core.IncomeStatement
	err = s.reportCache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.income.Generate(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetBalanceSheet returns the balance sheet as of a date, read through
// the report cache.
func (s *appService) GetBalanceSheet(ctx context.Context, req core.BalanceSheetRequest) (*core.BalanceSheet, error) {
	if s.reportCache == nil {
		return s.balanceSht.Generate(ctx, req)
	}

	key, err := s.reportCache.BuildKey(ctx, cache.BalanceSheetKey(req.CompanyID, req.AsOf)...)
	if err != nil {
		return nil, fmt.Errorf("build cache key: %w", err)
	}
	var report core.BalanceSheet
	err = s.reportCache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.balanceSht.Generate(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetAccountBalance returns one account's period balance. Drill-down data
// is always fresh; only assembled reports are cached.
func (s *appService) GetAccountBalance(ctx context.Context, companyID int, accountCode string, from, to time.Time) (*core.BalanceResult, error) {
	return s.balances.Calculate(ctx, companyID, accountCode, from, to)
}

// ListAccountMovements returns the drill-down lines behind one side of an
// account's activity.
func (s *appService) ListAccountMovements(ctx context.Context, companyID int, accountCode string, from, to time.Time, side core.Side) ([]core.Movement, error) {
	return s.balances.ListMovements(ctx, companyID, accountCode, from, to, side)
}

// SearchVouchers runs a journal voucher inquiry.
func (s *appService) SearchVouchers(ctx context.Context, companyID int, f core.VoucherFilter) (*core.InquiryResult, error) {
	return s.inquiry.Search(ctx, companyID, f)
}

// GetDashboard returns the KPI dashboard for a period, read through the
// report cache.
func (s *appService) GetDashboard(ctx context.Context, req core.DashboardRequest) (*core.Dashboard, error) {
	if s.reportCache == nil {
		return s.dashboard.Generate(ctx, req)
	}

	key, err := s.reportCache.BuildKey(ctx, cache.DashboardKey(req.CompanyID, req.From, req.To)...)
	if err != nil {
		return nil, fmt.Errorf("build cache key: %w", err)
	}
	var d core.Dashboard
	err = s.reportCache.FetchJSON(ctx, key, &d, func(ctx context.Context) (interface{}, error) {
		return s.dashboard.Generate(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// AskDataQuestion assembles the month's report tables and hands them to
// the assistant together with the question.
func (s *appService) AskDataQuestion(ctx context.Context, req AskRequest) (*AskResult, error) {
	if s.agent == nil {
		return nil, ErrAssistantUnavailable
	}
	if req.Question == "" {
		return nil, errors.New("question required")
	}

	income, err := s.GetIncomeStatement(ctx, core.IncomeStatementRequest{
		CompanyID:       req.CompanyID,
		Year:            req.Year,
		Month:           req.Month,
		CompareLastYear: true,
	})
	if err != nil {
		return nil, err
	}
	_, monthEnd := core.MonthBounds(req.Year, req.Month)
	sheet, err := s.GetBalanceSheet(ctx, core.BalanceSheetRequest{
		CompanyID: req.CompanyID,
		AsOf:      monthEnd,
	})
	if err != nil {
		return nil, err
	}

	snapshots := []core.TableSnapshot{income.Snapshot(), sheet.Snapshot()}
	answer, err := s.agent.AnswerDataQuestion(ctx, req.Question, snapshots)
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}

	tables := make([]string, len(snapshots))
	for i, snap := range snapshots {
		tables[i] = snap.Title
	}
	return &AskResult{Answer: answer, Tables: tables}, nil
}

// InvalidateReportCache bumps the cache version.
func (s *appService) InvalidateReportCache(ctx context.Context) error {
	return s.reportCache.Bump(ctx)
}

func (s *appService) ListCompanies(ctx context.Context) ([]core.Company, error) {
	return s.gateway.ListCompanies(ctx)
}

func (s *appService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.gateway.ListAccounts(ctx)
}

func (s *appService) ListEmployees(ctx context.Context) ([]core.Employee, error) {
	return s.gateway.ListEmployees(ctx)
}

// AuthenticateUser verifies credentials. Unknown user and wrong password
// are indistinguishable to the caller.
func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, errors.New("authentication failed: bad credentials")
	}
	return &UserSession{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Username:  user.Username,
		Role:      user.Role,
	}, nil
}

// GetUser returns user profile by ID.
func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
	}, nil
}
