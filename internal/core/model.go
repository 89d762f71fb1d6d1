package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the debit/credit marker used on voucher lines and on an
// account's normal balance direction.
type Side string

const (
	Debit  Side = "D"
	Credit Side = "C"
)

// ApprovalStatus is the review state of a voucher header. Only approved
// vouchers participate in any balance, category, or KPI computation.
// "approved" is the single positive match; every other value is treated
// as not approved.
type ApprovalStatus string

const (
	StatusApproved ApprovalStatus = "approved"
	StatusPending  ApprovalStatus = "pending"
)

// Account is one entry in the shared chart of accounts. Codes are
// hierarchical by prefix: "1" covers all asset accounts, "4000" covers
// itself and any sub-account starting with 4000.
type Account struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NormalSide Side   `json:"normal_side"`
}

// IsDebitNormal reports whether the account's balance is conventionally
// positive on the debit side (assets, expenses).
func (a Account) IsDebitNormal() bool {
	return a.NormalSide == Debit
}

type Company struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Employee is a voucher preparer.
type Employee struct {
	ID     int    `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Voucher is a journal voucher header. Lines must balance (sum of debits
// equals sum of credits) — enforced when vouchers are posted upstream, and
// assumed by every balance computation here.
type Voucher struct {
	ID         int            `json:"id"`
	VoucherNo  string         `json:"voucher_no"`
	Date       time.Time      `json:"date"`
	Status     ApprovalStatus `json:"status"`
	CompanyID  int            `json:"company_id"`
	PreparerID int            `json:"preparer_id"`
	Memo       string         `json:"memo"`
	Lines      []VoucherLine  `json:"lines,omitempty"`
}

// VoucherLine is a single debit or credit entry. Amount is always
// non-negative; Side carries the direction.
type VoucherLine struct {
	ID          int             `json:"id"`
	VoucherID   int             `json:"voucher_id"`
	LineNo      int             `json:"line_no"`
	AccountCode string          `json:"account_code"`
	Amount      decimal.Decimal `json:"amount"`
	Side        Side            `json:"side"`
	Memo        string          `json:"memo"`
}
