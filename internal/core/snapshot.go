package core

import "github.com/shopspring/decimal"

// RowKind distinguishes presentation roles in a flattened report table.
type RowKind string

const (
	RowAccount    RowKind = "account"
	RowCategory   RowKind = "category"
	RowCalculated RowKind = "calculated"
	RowSection    RowKind = "section"
	RowSubtotal   RowKind = "subtotal"
	RowSpacer     RowKind = "spacer"
	RowTotal      RowKind = "total"
)

// ReportRow is one labeled row of an assembled report. Amount is nil for
// section headers and spacers. Comparison cells are present only when the
// caller requested period comparisons.
type ReportRow struct {
	Label       string           `json:"label"`
	Kind        RowKind          `json:"kind"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Comparisons []ComparisonCell `json:"comparisons,omitempty"`
}

// ComparisonCell is a same-row amount for a comparison period plus the
// percentage change against it.
type ComparisonCell struct {
	PeriodLabel string          `json:"period_label"`
	Amount      decimal.Decimal `json:"amount"`
	Change      Change          `json:"change"`
}

// TableSnapshot is the read-only tabular view of a report handed to
// presentation and the ask-your-data assistant. Cells are pre-formatted
// strings; consumers never recompute amounts from it.
type TableSnapshot struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func amountCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
