package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryKind decides the display-sign rule for a category: expense
// categories are shown sign-flipped (positive-for-display), revenue and
// income categories are shown as-is.
type CategoryKind string

const (
	KindRevenue CategoryKind = "revenue"
	KindExpense CategoryKind = "expense"
)

// CategoryDef maps a named report category to an account-code prefix.
// The prefixes are configuration, not hard-coded business truth — the
// defaults below mirror the customer's chart layout.
type CategoryDef struct {
	Key    string       `json:"key"`
	Label  string       `json:"label"`
	Prefix string       `json:"prefix"`
	Kind   CategoryKind `json:"kind"`
}

// Income statement category keys.
const (
	CategoryRevenue      = "revenue"
	CategoryCOGS         = "cogs"
	CategoryOpEx         = "operating_expenses"
	CategoryNonOpIncome  = "non_operating_income"
	CategoryNonOpExpense = "non_operating_expense"
)

// Derived income statement row keys.
const (
	CategoryGrossProfit     = "gross_profit"
	CategoryOperatingIncome = "operating_income"
	CategoryPretaxIncome    = "pretax_income"
)

// Balance sheet section prefixes.
const (
	PrefixAssets      = "1"
	PrefixLiabilities = "2"
	PrefixEquity      = "3"
)

// IncomeStatementCategories returns the default income statement category
// set in report order.
func IncomeStatementCategories() []CategoryDef {
	return []CategoryDef{
		{Key: CategoryRevenue, Label: "Revenue", Prefix: "4", Kind: KindRevenue},
		{Key: CategoryCOGS, Label: "COGS", Prefix: "5", Kind: KindExpense},
		{Key: CategoryOpEx, Label: "Operating Expenses", Prefix: "6", Kind: KindExpense},
		{Key: CategoryNonOpIncome, Label: "Non-operating Income", Prefix: "71", Kind: KindRevenue},
		{Key: CategoryNonOpExpense, Label: "Non-operating Expense", Prefix: "75", Kind: KindExpense},
	}
}

// CategoryAggregator sums ledger activity per category. All reports share
// this one implementation so sign conventions and join logic cannot drift
// between report variants.
type CategoryAggregator struct {
	gw LedgerGateway
}

func NewCategoryAggregator(gw LedgerGateway) *CategoryAggregator {
	return &CategoryAggregator{gw: gw}
}

// AggregatePeriod returns one net amount per category for the period,
// approved vouchers only. Amounts are CREDIT-POSITIVE: the gateway's raw
// debit-positive sum is negated, so revenue categories come back positive
// and expense categories negative. That is the convention the derived
// income statement formulas operate on. A prefix matching no activity
// contributes an explicit zero.
func (a *CategoryAggregator) AggregatePeriod(ctx context.Context, companyID int, defs []CategoryDef, r DateRange) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(defs))
	for _, def := range defs {
		raw, err := a.gw.SumSignedAmount(ctx, companyID, def.Prefix, r, true)
		if err != nil {
			return nil, err
		}
		out[def.Key] = raw.Neg()
	}
	return out, nil
}
