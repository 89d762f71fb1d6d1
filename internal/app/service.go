package app

import (
	"context"
	"time"

	"ledger-insight/internal/ai"
	"ledger-insight/internal/core"
)

// ApplicationService is the single interface all UI adapters (Web, CLI)
// call. It decouples presentation from business logic. Implementations
// must contain no fmt.Println, no ANSI codes, and no display logic of
// any kind.
type ApplicationService interface {
	// GetIncomeStatement returns the comparative monthly income statement.
	GetIncomeStatement(ctx context.Context, req core.IncomeStatementRequest) (*core.IncomeStatement, error)

	// GetBalanceSheet returns the balance sheet as of a date.
	GetBalanceSheet(ctx context.Context, req core.BalanceSheetRequest) (*core.BalanceSheet, error)

	// GetAccountBalance returns one account's (or prefix rollup's) opening
	// balance, period movements, and closing balance.
	GetAccountBalance(ctx context.Context, companyID int, accountCode string, from, to time.Time) (*core.BalanceResult, error)

	// ListAccountMovements returns the line-level drill-down behind one
	// side of an account's period activity.
	ListAccountMovements(ctx context.Context, companyID int, accountCode string, from, to time.Time, side core.Side) ([]core.Movement, error)

	// SearchVouchers runs a journal voucher inquiry.
	SearchVouchers(ctx context.Context, companyID int, f core.VoucherFilter) (*core.InquiryResult, error)

	// GetDashboard returns the KPI dashboard for a period.
	GetDashboard(ctx context.Context, req core.DashboardRequest) (*core.Dashboard, error)

	// AskDataQuestion answers a natural-language question against the
	// report tables of the given month.
	AskDataQuestion(ctx context.Context, req AskRequest) (*AskResult, error)

	// InvalidateReportCache bumps the report cache version, orphaning all
	// cached reports at once. Called after ledger data changes upstream.
	InvalidateReportCache(ctx context.Context) error

	// ListCompanies returns all companies.
	ListCompanies(ctx context.Context) ([]core.Company, error)

	// ListAccounts returns the chart of accounts.
	ListAccounts(ctx context.Context) ([]core.Account, error)

	// ListEmployees returns all voucher preparers.
	ListEmployees(ctx context.Context) ([]core.Employee, error)

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)
}

// AgentService is the slice of the AI layer the facade needs; nil means
// the assistant is not configured.
type AgentService = ai.AgentService
