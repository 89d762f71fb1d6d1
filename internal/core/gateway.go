package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange bounds a query by voucher date. Both bounds are inclusive
// calendar dates; a nil bound means unbounded on that end.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Between returns the inclusive range [from, to].
func Between(from, to time.Time) DateRange {
	return DateRange{From: &from, To: &to}
}

// Before returns the range covering all history strictly earlier than t.
// Voucher dates are whole calendar dates, so "date < t" is expressed as
// an inclusive bound on the previous day. Used for opening-balance and
// as-of queries.
func Before(t time.Time) DateRange {
	prev := t.AddDate(0, 0, -1)
	return DateRange{To: &prev}
}

// Through returns the range covering all history up to and including t.
func Through(t time.Time) DateRange {
	return DateRange{To: &t}
}

// Valid reports whether the range is well-formed (From not after To when
// both bounds are set).
func (r DateRange) Valid() bool {
	if r.From != nil && r.To != nil {
		return !r.From.After(*r.To)
	}
	return true
}

// DebitCredit carries the two sides of a period's movements separately.
type DebitCredit struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Movement is one ledger line in a drill-down listing, joined with its
// voucher header and preparer.
type Movement struct {
	Date         time.Time       `json:"date"`
	VoucherNo    string          `json:"voucher_no"`
	Memo         string          `json:"memo"`
	AccountCode  string          `json:"account_code"`
	AccountName  string          `json:"account_name"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	PreparerName string          `json:"preparer_name"`
}

// AccountActivity is one account's raw net-debit position for a
// balance-sheet section query. NetDebit keeps the gateway sign convention
// (debits add, credits subtract); the caller applies the normal-side flip.
type AccountActivity struct {
	Code       string
	Name       string
	NormalSide Side
	NetDebit   decimal.Decimal
}

// ApprovalFilter selects vouchers by review state in journal inquiries.
type ApprovalFilter string

const (
	ApprovalAll      ApprovalFilter = "all"
	ApprovalApproved ApprovalFilter = "approved"
	ApprovalPending  ApprovalFilter = "pending"
)

// VoucherFilter is the journal voucher inquiry criteria. From and To are
// required; everything else is optional.
type VoucherFilter struct {
	From         time.Time
	To           time.Time
	AccountCodes []string
	MemoKeyword  string
	MinAmount    *decimal.Decimal
	MaxAmount    *decimal.Decimal
	VoucherNo    string
	PreparerIDs  []string
	Approval     ApprovalFilter
}

// VoucherLineRow is one row of a journal voucher inquiry result.
type VoucherLineRow struct {
	Date         time.Time       `json:"date"`
	VoucherNo    string          `json:"voucher_no"`
	Status       ApprovalStatus  `json:"status"`
	LineMemo     string          `json:"line_memo"`
	AccountCode  string          `json:"account_code"`
	AccountName  string          `json:"account_name"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	PreparerName string          `json:"preparer_name"`
}

// MaxInquiryRows caps raw line listings; aggregates are never capped.
const MaxInquiryRows = 5000

// LedgerGateway is the single boundary to the ledger store. All amounts
// come back in the raw asset-style sign convention — Debit contributes
// +amount, Credit contributes −amount — regardless of the account's
// normal side; callers apply the normal-side correction. Zero activity
// returns 0 or an empty slice, never an error; store failures propagate
// as errors, never as substituted zeroes.
type LedgerGateway interface {
	// SumSignedAmount returns the signed sum of line amounts for a company,
	// account-code prefix, and date range. approvedOnly restricts to
	// approved vouchers (true for every balance computation).
	SumSignedAmount(ctx context.Context, companyID int, accountPrefix string, r DateRange, approvedOnly bool) (decimal.Decimal, error)

	// SumDebitCredit returns the period's debit and credit totals
	// separately, approved vouchers only.
	SumDebitCredit(ctx context.Context, companyID int, accountPrefix string, r DateRange) (DebitCredit, error)

	// AccountBalancesAsOf returns each account under prefix with its raw
	// net-debit position as of the date range's upper bound. Accounts with
	// zero net activity are omitted. Ordered by account code.
	AccountBalancesAsOf(ctx context.Context, companyID int, accountPrefix string, asOf time.Time) ([]AccountActivity, error)

	// ListMovements returns line-level drill-down rows for one side of an
	// account's activity, ordered by date then voucher number.
	ListMovements(ctx context.Context, companyID int, accountPrefix string, r DateRange, side Side) ([]Movement, error)

	// SearchVoucherLines runs a journal voucher inquiry. Results are
	// ordered by date then voucher number then line number and capped at
	// MaxInquiryRows; the bool result reports whether the cap truncated
	// the listing.
	SearchVoucherLines(ctx context.Context, companyID int, f VoucherFilter) ([]VoucherLineRow, bool, error)

	// GetAccount returns the chart-of-accounts entry for code, or
	// ErrAccountNotFound.
	GetAccount(ctx context.Context, code string) (*Account, error)

	// ListAccounts returns the full chart ordered by code.
	ListAccounts(ctx context.Context) ([]Account, error)

	// GetCompany returns the company by id, or ErrCompanyNotFound.
	GetCompany(ctx context.Context, companyID int) (*Company, error)

	// ListCompanies returns all companies ordered by code.
	ListCompanies(ctx context.Context) ([]Company, error)

	// ListEmployees returns all voucher preparers ordered by user id.
	ListEmployees(ctx context.Context) ([]Employee, error)
}
