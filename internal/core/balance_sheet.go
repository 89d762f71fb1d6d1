package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSheetRequest selects a company and an as-of date. Balances are
// cumulative from the beginning of history through the as-of date —
// the same query shape as an opening balance, not a period range.
type BalanceSheetRequest struct {
	CompanyID int       `json:"company_id"`
	AsOf      time.Time `json:"as_of"`
}

// BalanceSheetAccountRow is one account with a non-zero balance,
// expressed in the account's normal-balance sign.
type BalanceSheetAccountRow struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSheetSection groups the accounts of one top-level classification.
type BalanceSheetSection struct {
	Key      string                   `json:"key"`
	Label    string                   `json:"label"`
	Accounts []BalanceSheetAccountRow `json:"accounts"`
	Total    decimal.Decimal          `json:"total"`
}

// BalanceSheet is the assembled report. Balanced reports whether the
// accounting identity Assets = Liabilities + Equity holds within the
// minor unit of the reporting currency; a mismatch is a reportable
// condition carried in Discrepancy, never a fatal error.
type BalanceSheet struct {
	Company                   Company             `json:"company"`
	AsOf                      time.Time           `json:"as_of"`
	Assets                    BalanceSheetSection `json:"assets"`
	Liabilities               BalanceSheetSection `json:"liabilities"`
	Equity                    BalanceSheetSection `json:"equity"`
	TotalLiabilitiesAndEquity decimal.Decimal     `json:"total_liabilities_and_equity"`
	Balanced                  bool                `json:"balanced"`
	Discrepancy               decimal.Decimal     `json:"discrepancy"`
}

// BalanceSheetService assembles balance sheets. Section order is fixed:
// Assets, Liabilities, Equity.
type BalanceSheetService struct {
	gw LedgerGateway
}

func NewBalanceSheetService(gw LedgerGateway) *BalanceSheetService {
	return &BalanceSheetService{gw: gw}
}

type sectionDef struct {
	key    string
	label  string
	prefix string
}

func balanceSheetSections() []sectionDef {
	return []sectionDef{
		{key: "assets", label: "Assets", prefix: PrefixAssets},
		{key: "liabilities", label: "Liabilities", prefix: PrefixLiabilities},
		{key: "equity", label: "Equity", prefix: PrefixEquity},
	}
}

// Generate builds the balance sheet as of req.AsOf. Accounts with zero
// balance are excluded from the rows but still contribute zero to their
// section subtotal; a section with no active accounts renders with an
// explicit zero total.
func (s *BalanceSheetService) Generate(ctx context.Context, req BalanceSheetRequest) (*BalanceSheet, error) {
	company, err := s.gw.GetCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if req.AsOf.IsZero() {
		return nil, fmt.Errorf("as-of date required: %w", ErrInvalidDateRange)
	}

	report := &BalanceSheet{Company: *company, AsOf: req.AsOf}
	for _, def := range balanceSheetSections() {
		section := BalanceSheetSection{Key: def.key, Label: def.label}

		activities, err := s.gw.AccountBalancesAsOf(ctx, req.CompanyID, def.prefix, req.AsOf)
		if err != nil {
			return nil, err
		}
		for _, act := range activities {
			balance := act.NetDebit
			if act.NormalSide == Credit {
				balance = act.NetDebit.Neg()
			}
			if balance.IsZero() {
				continue
			}
			section.Accounts = append(section.Accounts, BalanceSheetAccountRow{
				Code:    act.Code,
				Name:    act.Name,
				Balance: balance,
			})
			section.Total = section.Total.Add(balance)
		}

		switch def.key {
		case "assets":
			report.Assets = section
		case "liabilities":
			report.Liabilities = section
		case "equity":
			report.Equity = section
		}
	}

	report.TotalLiabilitiesAndEquity = report.Liabilities.Total.Add(report.Equity.Total)
	report.Discrepancy = report.Assets.Total.Sub(report.TotalLiabilitiesAndEquity)
	report.Balanced = report.Discrepancy.Round(2).IsZero()
	return report, nil
}

// ReportRows flattens the sheet into display order: per section a header
// row, the non-zero account rows, a subtotal, and a spacer; then the
// final Total Liabilities and Equity row.
func (r *BalanceSheet) ReportRows() []ReportRow {
	var out []ReportRow
	for _, section := range []BalanceSheetSection{r.Assets, r.Liabilities, r.Equity} {
		out = append(out, ReportRow{Label: section.Label, Kind: RowSection})
		for _, acc := range section.Accounts {
			balance := acc.Balance
			out = append(out, ReportRow{
				Label:  fmt.Sprintf("%s %s", acc.Code, acc.Name),
				Kind:   RowAccount,
				Amount: &balance,
			})
		}
		total := section.Total
		out = append(out, ReportRow{Label: section.Label + " Total", Kind: RowSubtotal, Amount: &total})
		out = append(out, ReportRow{Kind: RowSpacer})
	}
	grand := r.TotalLiabilitiesAndEquity
	out = append(out, ReportRow{Label: "Total Liabilities and Equity", Kind: RowTotal, Amount: &grand})
	return out
}

// Snapshot flattens the sheet into the read-only table handed to exports
// and the data assistant.
func (r *BalanceSheet) Snapshot() TableSnapshot {
	snap := TableSnapshot{
		Title:   fmt.Sprintf("%s — Balance Sheet as of %s", r.Company.Name, r.AsOf.Format("2006-01-02")),
		Columns: []string{"Item", "Amount"},
	}
	for _, row := range r.ReportRows() {
		snap.Rows = append(snap.Rows, []string{row.Label, amountCell(row.Amount)})
	}
	return snap
}
