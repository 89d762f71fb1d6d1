package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardRequest selects a company and the main date range for the KPI
// cards. Trend series cover the twelve calendar months ending with the
// month of To.
type DashboardRequest struct {
	CompanyID int       `json:"company_id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
}

// KPISet holds the dashboard's headline figures. Expenses is
// display-positive (total COGS plus operating expenses, sign-flipped);
// the rest keep the credit-positive convention.
type KPISet struct {
	Revenue    decimal.Decimal `json:"revenue"`
	Expenses   decimal.Decimal `json:"expenses"`
	NetProfit  decimal.Decimal `json:"net_profit"`
	YTDRevenue decimal.Decimal `json:"ytd_revenue"`
}

// MonthPoint is one month of the revenue trend.
type MonthPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MarginPoint is one month of the margin trend, in percent.
type MarginPoint struct {
	Month       string          `json:"month"`
	GrossMargin decimal.Decimal `json:"gross_margin"`
	NetMargin   decimal.Decimal `json:"net_margin"`
}

// ExpenseSlice is one wedge of the expense-structure breakdown, as an
// absolute amount. Zero categories are omitted.
type ExpenseSlice struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Dashboard is the assembled KPI dashboard.
type Dashboard struct {
	Company          Company        `json:"company"`
	From             time.Time      `json:"from"`
	To               time.Time      `json:"to"`
	KPIs             KPISet         `json:"kpis"`
	RevenueTrend     []MonthPoint   `json:"revenue_trend"`
	MarginTrend      []MarginPoint  `json:"margin_trend"`
	ExpenseStructure []ExpenseSlice `json:"expense_structure"`
}

// DashboardService computes the KPI dashboard from category aggregates.
// All sub-queries are independent reads issued in a fixed order, so the
// output is deterministic for a given ledger state.
type DashboardService struct {
	gw         LedgerGateway
	aggregator *CategoryAggregator
	categories []CategoryDef
}

func NewDashboardService(gw LedgerGateway) *DashboardService {
	return &DashboardService{
		gw:         gw,
		aggregator: NewCategoryAggregator(gw),
		categories: IncomeStatementCategories(),
	}
}

// Generate builds the dashboard for [req.From, req.To].
func (s *DashboardService) Generate(ctx context.Context, req DashboardRequest) (*Dashboard, error) {
	if req.From.IsZero() || req.To.IsZero() || req.From.After(req.To) {
		return nil, fmt.Errorf("dashboard range: %w", ErrInvalidDateRange)
	}
	company, err := s.gw.GetCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	amounts, err := s.aggregator.AggregatePeriod(ctx, req.CompanyID, s.categories, Between(req.From, req.To))
	if err != nil {
		return nil, err
	}

	// YTD revenue: January 1st of the To-year through To.
	yearStart := time.Date(req.To.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	ytdRaw, err := s.gw.SumSignedAmount(ctx, req.CompanyID, s.prefixOf(CategoryRevenue), Between(yearStart, req.To), true)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		Company: *company,
		From:    req.From,
		To:      req.To,
		KPIs: KPISet{
			Revenue:    amounts[CategoryRevenue],
			Expenses:   amounts[CategoryCOGS].Add(amounts[CategoryOpEx]).Neg(),
			NetProfit:  NetProfit(amounts),
			YTDRevenue: ytdRaw.Neg(),
		},
	}

	if err := s.buildTrends(ctx, req, dashboard); err != nil {
		return nil, err
	}

	for _, key := range []string{CategoryCOGS, CategoryOpEx} {
		amount := amounts[key].Abs()
		if amount.IsZero() {
			continue
		}
		dashboard.ExpenseStructure = append(dashboard.ExpenseStructure, ExpenseSlice{
			Label:  s.labelOf(key),
			Amount: amount,
		})
	}
	return dashboard, nil
}

// buildTrends fills the twelve-month revenue and margin series, oldest
// month first.
func (s *DashboardService) buildTrends(ctx context.Context, req DashboardRequest, d *Dashboard) error {
	// Anchor on the first of the month so month arithmetic never
	// skips short months.
	first := time.Date(req.To.Year(), req.To.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 11; i >= 0; i-- {
		anchor := first.AddDate(0, -i, 0)
		start, end := MonthBounds(anchor.Year(), int(anchor.Month()))
		label := start.Format("2006-01")

		amounts, err := s.aggregator.AggregatePeriod(ctx, req.CompanyID, s.categories, Between(start, end))
		if err != nil {
			return err
		}

		revenue := amounts[CategoryRevenue]
		net := NetProfit(amounts)
		d.RevenueTrend = append(d.RevenueTrend, MonthPoint{Month: label, Revenue: revenue})
		d.MarginTrend = append(d.MarginTrend, MarginPoint{
			Month:       label,
			GrossMargin: GrossMargin(revenue, amounts[CategoryCOGS]),
			NetMargin:   NetMargin(revenue, net),
		})
	}
	return nil
}

func (s *DashboardService) prefixOf(key string) string {
	for _, def := range s.categories {
		if def.Key == key {
			return def.Prefix
		}
	}
	return key
}

func (s *DashboardService) labelOf(key string) string {
	for _, def := range s.categories {
		if def.Key == key {
			return def.Label
		}
	}
	return key
}
