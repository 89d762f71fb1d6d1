package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// stubGateway implements LedgerGateway with per-method function fields so
// each test wires only what it exercises. Unset methods return zero values.
type stubGateway struct {
	sumSignedAmount    func(companyID int, prefix string, r DateRange, approvedOnly bool) (decimal.Decimal, error)
	sumDebitCredit     func(companyID int, prefix string, r DateRange) (DebitCredit, error)
	accountBalances    func(companyID int, prefix string, asOf time.Time) ([]AccountActivity, error)
	listMovements      func(companyID int, prefix string, r DateRange, side Side) ([]Movement, error)
	searchVoucherLines func(companyID int, f VoucherFilter) ([]VoucherLineRow, bool, error)
	getAccount         func(code string) (*Account, error)
	getCompany         func(companyID int) (*Company, error)
}

func (s *stubGateway) SumSignedAmount(_ context.Context, companyID int, prefix string, r DateRange, approvedOnly bool) (decimal.Decimal, error) {
	if s.sumSignedAmount == nil {
		return decimal.Zero, nil
	}
	return s.sumSignedAmount(companyID, prefix, r, approvedOnly)
}

func (s *stubGateway) SumDebitCredit(_ context.Context, companyID int, prefix string, r DateRange) (DebitCredit, error) {
	if s.sumDebitCredit == nil {
		return DebitCredit{}, nil
	}
	return s.sumDebitCredit(companyID, prefix, r)
}

func (s *stubGateway) AccountBalancesAsOf(_ context.Context, companyID int, prefix string, asOf time.Time) ([]AccountActivity, error) {
	if s.accountBalances == nil {
		return nil, nil
	}
	return s.accountBalances(companyID, prefix, asOf)
}

func (s *stubGateway) ListMovements(_ context.Context, companyID int, prefix string, r DateRange, side Side) ([]Movement, error) {
	if s.listMovements == nil {
		return nil, nil
	}
	return s.listMovements(companyID, prefix, r, side)
}

func (s *stubGateway) SearchVoucherLines(_ context.Context, companyID int, f VoucherFilter) ([]VoucherLineRow, bool, error) {
	if s.searchVoucherLines == nil {
		return nil, false, nil
	}
	return s.searchVoucherLines(companyID, f)
}

func (s *stubGateway) GetAccount(_ context.Context, code string) (*Account, error) {
	if s.getAccount == nil {
		return &Account{Code: code, Name: "Account " + code, NormalSide: Debit}, nil
	}
	return s.getAccount(code)
}

func (s *stubGateway) ListAccounts(context.Context) ([]Account, error) { return nil, nil }

func (s *stubGateway) GetCompany(_ context.Context, companyID int) (*Company, error) {
	if s.getCompany == nil {
		return &Company{ID: companyID, Code: "1000", Name: "Demo Co"}, nil
	}
	return s.getCompany(companyID)
}

func (s *stubGateway) ListCompanies(context.Context) ([]Company, error)  { return nil, nil }
func (s *stubGateway) ListEmployees(context.Context) ([]Employee, error) { return nil, nil }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
