package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Change is a period-over-period percentage movement. IsNew marks the
// case where the prior-period base is zero but the current period is not
// — the ratio is undefined and renders as "new" rather than a number.
type Change struct {
	Percent decimal.Decimal `json:"percent"`
	IsNew   bool            `json:"is_new"`
}

// Display renders the change for tabular output: "new" for an undefined
// base, otherwise a one-decimal percentage.
func (c Change) Display() string {
	if c.IsNew {
		return "new"
	}
	return c.Percent.StringFixed(1) + "%"
}

// PercentChange computes (current − prior) / |prior| × 100.
// Both zero → 0%. Prior zero with current non-zero → IsNew.
func PercentChange(current, prior decimal.Decimal) Change {
	if prior.IsZero() {
		if current.IsZero() {
			return Change{}
		}
		return Change{IsNew: true}
	}
	return Change{Percent: current.Sub(prior).Div(prior.Abs()).Mul(hundred)}
}

// DeriveIncomeStatement extends a credit-positive category map with the
// three calculated rows. Expense categories arrive negative, so every
// derived row is a plain sum:
//
//	GrossProfit     = Revenue + COGS
//	OperatingIncome = GrossProfit + OperatingExpenses
//	PretaxIncome    = OperatingIncome + NonOpIncome + NonOpExpense
//
// The input map is extended in place and returned.
func DeriveIncomeStatement(amounts map[string]decimal.Decimal) map[string]decimal.Decimal {
	gross := amounts[CategoryRevenue].Add(amounts[CategoryCOGS])
	amounts[CategoryGrossProfit] = gross

	operating := gross.Add(amounts[CategoryOpEx])
	amounts[CategoryOperatingIncome] = operating

	amounts[CategoryPretaxIncome] = operating.
		Add(amounts[CategoryNonOpIncome]).
		Add(amounts[CategoryNonOpExpense])
	return amounts
}

// NetProfit is the sum of all five income statement categories in the
// credit-positive convention (expenses subtract themselves).
func NetProfit(amounts map[string]decimal.Decimal) decimal.Decimal {
	return amounts[CategoryRevenue].
		Add(amounts[CategoryCOGS]).
		Add(amounts[CategoryOpEx]).
		Add(amounts[CategoryNonOpIncome]).
		Add(amounts[CategoryNonOpExpense])
}

// GrossMargin returns (Revenue + COGS) / Revenue × 100, or 0 when
// Revenue is zero.
func GrossMargin(revenue, cogs decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return revenue.Add(cogs).Div(revenue).Mul(hundred)
}

// NetMargin returns netProfit / revenue × 100, or 0 when revenue is zero.
func NetMargin(revenue, netProfit decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return netProfit.Div(revenue).Mul(hundred)
}

// DisplayAmount applies the display-sign rule: expense categories are
// shown positive (their raw credit-positive aggregate negated), revenue
// and calculated rows are shown as-is.
func DisplayAmount(kind CategoryKind, raw decimal.Decimal) decimal.Decimal {
	if kind == KindExpense {
		return raw.Neg()
	}
	return raw
}
