package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeStatementRequest selects one calendar month for a company, with
// optional last-year-same-month and last-month comparison columns.
// AllowPartial downgrades a single failed category query to a warning
// instead of aborting the whole report; the default (false) aborts on any
// failure, which is the safe choice for financial output.
type IncomeStatementRequest struct {
	CompanyID        int  `json:"company_id"`
	Year             int  `json:"year"`
	Month            int  `json:"month"`
	CompareLastYear  bool `json:"compare_last_year"`
	CompareLastMonth bool `json:"compare_last_month"`
	AllowPartial     bool `json:"allow_partial"`
}

// IncomeStatementRow is one display row. Amount carries the display sign
// (expense categories positive); YoY/MoM changes are computed on the raw
// credit-positive amounts before display negation, so a growing expense
// shows a negative change: its drag on profit increased.
type IncomeStatementRow struct {
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	IsCalculated bool            `json:"is_calculated"`
	Amount       decimal.Decimal `json:"amount"`
	LastYear     *ComparisonCell `json:"last_year,omitempty"`
	LastMonth    *ComparisonCell `json:"last_month,omitempty"`
}

// IncomeStatement is the assembled comparative income statement.
type IncomeStatement struct {
	Company     Company              `json:"company"`
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	PeriodLabel string               `json:"period_label"`
	Rows        []IncomeStatementRow `json:"rows"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// displayRow is the fixed income statement row order. Calculated rows are
// interleaved between the categories they derive from.
type displayRow struct {
	key        string
	label      string
	kind       CategoryKind
	calculated bool
}

func incomeStatementOrder() []displayRow {
	return []displayRow{
		{key: CategoryRevenue, label: "Revenue", kind: KindRevenue},
		{key: CategoryCOGS, label: "COGS", kind: KindExpense},
		{key: CategoryGrossProfit, label: "Gross Profit", kind: KindRevenue, calculated: true},
		{key: CategoryOpEx, label: "Operating Expenses", kind: KindExpense},
		{key: CategoryOperatingIncome, label: "Operating Income", kind: KindRevenue, calculated: true},
		{key: CategoryNonOpIncome, label: "Non-operating Income", kind: KindRevenue},
		{key: CategoryNonOpExpense, label: "Non-operating Expense", kind: KindExpense},
		{key: CategoryPretaxIncome, label: "Pre-tax Income", kind: KindRevenue, calculated: true},
	}
}

// IncomeStatementService assembles comparative income statements from
// category aggregates.
type IncomeStatementService struct {
	gw         LedgerGateway
	aggregator *CategoryAggregator
	categories []CategoryDef
}

func NewIncomeStatementService(gw LedgerGateway) *IncomeStatementService {
	return &IncomeStatementService{
		gw:         gw,
		aggregator: NewCategoryAggregator(gw),
		categories: IncomeStatementCategories(),
	}
}

// MonthBounds returns the inclusive first/last calendar day of a month.
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

func periodLabel(year, month int) string {
	return fmt.Sprintf("%04d/%02d", year, month)
}

// Generate builds the income statement for the requested month. Every
// period (current, last year, last month) goes through the same category
// aggregation and derivation, so the comparison columns can never drift
// from the current-period logic.
func (s *IncomeStatementService) Generate(ctx context.Context, req IncomeStatementRequest) (*IncomeStatement, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, fmt.Errorf("month %d out of range: %w", req.Month, ErrInvalidDateRange)
	}
	company, err := s.gw.GetCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	report := &IncomeStatement{
		Company:     *company,
		Year:        req.Year,
		Month:       req.Month,
		PeriodLabel: periodLabel(req.Year, req.Month),
	}

	current, err := s.monthAmounts(ctx, req.CompanyID, req.Year, req.Month, req.AllowPartial, report)
	if err != nil {
		return nil, err
	}

	var lastYear, lastMonth map[string]decimal.Decimal
	lyLabel, lmLabel := "", ""
	if req.CompareLastYear {
		lyYear, lyMonth := req.Year-1, req.Month
		lyLabel = periodLabel(lyYear, lyMonth) + " (LY)"
		if lastYear, err = s.monthAmounts(ctx, req.CompanyID, lyYear, lyMonth, req.AllowPartial, report); err != nil {
			return nil, err
		}
	}
	if req.CompareLastMonth {
		lmYear, lmMonth := req.Year, req.Month-1
		if lmMonth == 0 {
			lmYear, lmMonth = req.Year-1, 12
		}
		lmLabel = periodLabel(lmYear, lmMonth) + " (LM)"
		if lastMonth, err = s.monthAmounts(ctx, req.CompanyID, lmYear, lmMonth, req.AllowPartial, report); err != nil {
			return nil, err
		}
	}

	for _, dr := range incomeStatementOrder() {
		raw := current[dr.key]
		row := IncomeStatementRow{
			Key:          dr.key,
			Label:        dr.label,
			IsCalculated: dr.calculated,
			Amount:       DisplayAmount(dr.kind, raw),
		}
		if lastYear != nil {
			row.LastYear = comparisonCell(lyLabel, dr.kind, raw, lastYear[dr.key])
		}
		if lastMonth != nil {
			row.LastMonth = comparisonCell(lmLabel, dr.kind, raw, lastMonth[dr.key])
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

// monthAmounts aggregates and derives one month's category amounts.
// Under AllowPartial a failed category is recorded as a warning and
// carried as zero; derived rows then reflect the gap, which is why the
// warning always accompanies the report.
func (s *IncomeStatementService) monthAmounts(ctx context.Context, companyID, year, month int, allowPartial bool, report *IncomeStatement) (map[string]decimal.Decimal, error) {
	start, end := MonthBounds(year, month)
	r := Between(start, end)

	if !allowPartial {
		amounts, err := s.aggregator.AggregatePeriod(ctx, companyID, s.categories, r)
		if err != nil {
			return nil, err
		}
		return DeriveIncomeStatement(amounts), nil
	}

	amounts := make(map[string]decimal.Decimal, len(s.categories))
	for _, def := range s.categories {
		raw, err := s.gw.SumSignedAmount(ctx, companyID, def.Prefix, r, true)
		if err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s unavailable for %s: %v", def.Label, periodLabel(year, month), err))
			amounts[def.Key] = decimal.Zero
			continue
		}
		amounts[def.Key] = raw.Neg()
	}
	return DeriveIncomeStatement(amounts), nil
}

func comparisonCell(label string, kind CategoryKind, currentRaw, priorRaw decimal.Decimal) *ComparisonCell {
	return &ComparisonCell{
		PeriodLabel: label,
		Amount:      DisplayAmount(kind, priorRaw),
		Change:      PercentChange(currentRaw, priorRaw),
	}
}

// Snapshot flattens the statement into the read-only table handed to
// exports and the data assistant.
func (r *IncomeStatement) Snapshot() TableSnapshot {
	columns := []string{"Item", r.PeriodLabel}
	withLY := len(r.Rows) > 0 && r.Rows[0].LastYear != nil
	withLM := len(r.Rows) > 0 && r.Rows[0].LastMonth != nil
	if withLY {
		columns = append(columns, r.Rows[0].LastYear.PeriodLabel, "YoY %")
	}
	if withLM {
		columns = append(columns, r.Rows[0].LastMonth.PeriodLabel, "MoM %")
	}

	snap := TableSnapshot{
		Title:   fmt.Sprintf("%s — Income Statement %s", r.Company.Name, r.PeriodLabel),
		Columns: columns,
	}
	for _, row := range r.Rows {
		cells := []string{row.Label, row.Amount.StringFixed(2)}
		if withLY {
			cells = append(cells, row.LastYear.Amount.StringFixed(2), row.LastYear.Change.Display())
		}
		if withLM {
			cells = append(cells, row.LastMonth.Amount.StringFixed(2), row.LastMonth.Change.Display())
		}
		snap.Rows = append(snap.Rows, cells)
	}
	return snap
}

// Rows returns the statement as generic report rows.
func (r *IncomeStatement) ReportRows() []ReportRow {
	out := make([]ReportRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		amount := row.Amount
		kind := RowCategory
		if row.IsCalculated {
			kind = RowCalculated
		}
		rr := ReportRow{Label: row.Label, Kind: kind, Amount: &amount}
		if row.LastYear != nil {
			rr.Comparisons = append(rr.Comparisons, *row.LastYear)
		}
		if row.LastMonth != nil {
			rr.Comparisons = append(rr.Comparisons, *row.LastMonth)
		}
		out = append(out, rr)
	}
	return out
}
