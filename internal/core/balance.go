package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceResult is the opening/closing position of one account (or
// account-prefix group) over a period. Opening and Closing are expressed
// in the account's normal-balance sign: a Credit-normal account with more
// credits than debits has a positive balance.
type BalanceResult struct {
	Account       Account         `json:"account"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	Opening       decimal.Decimal `json:"opening"`
	PeriodDebits  decimal.Decimal `json:"period_debits"`
	PeriodCredits decimal.Decimal `json:"period_credits"`
	Closing       decimal.Decimal `json:"closing"`
}

// BalanceService computes account balances and their line-level
// drill-downs. Selecting a parent account rolls up every sub-account
// sharing its code prefix.
type BalanceService struct {
	gw LedgerGateway
}

func NewBalanceService(gw LedgerGateway) *BalanceService {
	return &BalanceService{gw: gw}
}

// Calculate computes the opening balance, period movements, and closing
// balance for accountCode over [periodStart, periodEnd]. The closing
// formula depends on the account's normal side:
//
//	Debit-normal:  closing = opening + debits - credits
//	Credit-normal: closing = opening - debits + credits
func (s *BalanceService) Calculate(ctx context.Context, companyID int, accountCode string, periodStart, periodEnd time.Time) (*BalanceResult, error) {
	if periodStart.After(periodEnd) {
		return nil, fmt.Errorf("period start %s after end %s: %w",
			periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"), ErrInvalidDateRange)
	}

	account, err := s.gw.GetAccount(ctx, accountCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.gw.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	rawOpening, err := s.gw.SumSignedAmount(ctx, companyID, account.Code, Before(periodStart), true)
	if err != nil {
		return nil, err
	}
	opening := rawOpening
	if !account.IsDebitNormal() {
		opening = rawOpening.Neg()
	}

	dc, err := s.gw.SumDebitCredit(ctx, companyID, account.Code, Between(periodStart, periodEnd))
	if err != nil {
		return nil, err
	}

	var closing decimal.Decimal
	if account.IsDebitNormal() {
		closing = opening.Add(dc.Debit).Sub(dc.Credit)
	} else {
		closing = opening.Sub(dc.Debit).Add(dc.Credit)
	}

	return &BalanceResult{
		Account:       *account,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Opening:       opening,
		PeriodDebits:  dc.Debit,
		PeriodCredits: dc.Credit,
		Closing:       closing,
	}, nil
}

// ListMovements returns the individual ledger lines behind one side of the
// account's period activity. No matching activity yields an empty slice.
func (s *BalanceService) ListMovements(ctx context.Context, companyID int, accountCode string, periodStart, periodEnd time.Time, side Side) ([]Movement, error) {
	if periodStart.After(periodEnd) {
		return nil, fmt.Errorf("period start after end: %w", ErrInvalidDateRange)
	}
	if _, err := s.gw.GetAccount(ctx, accountCode); err != nil {
		return nil, err
	}
	return s.gw.ListMovements(ctx, companyID, accountCode, Between(periodStart, periodEnd), side)
}
