package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// InquiryResult is a journal voucher inquiry outcome: the matching lines
// plus debit and credit totals over the returned rows. Truncated reports
// that the MaxInquiryRows cap cut the listing short, in which case the
// totals cover only the rows shown.
type InquiryResult struct {
	Rows        []VoucherLineRow `json:"rows"`
	TotalDebit  decimal.Decimal  `json:"total_debit"`
	TotalCredit decimal.Decimal  `json:"total_credit"`
	Truncated   bool             `json:"truncated"`
}

// VoucherInquiryService answers journal voucher searches.
type VoucherInquiryService struct {
	gw LedgerGateway
}

func NewVoucherInquiryService(gw LedgerGateway) *VoucherInquiryService {
	return &VoucherInquiryService{gw: gw}
}

// Search validates the filter and runs the inquiry. The date range is
// required; an empty result is a valid outcome, not an error.
func (s *VoucherInquiryService) Search(ctx context.Context, companyID int, f VoucherFilter) (*InquiryResult, error) {
	if f.From.IsZero() || f.To.IsZero() || f.From.After(f.To) {
		return nil, fmt.Errorf("voucher inquiry range: %w", ErrInvalidDateRange)
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return nil, fmt.Errorf("voucher inquiry amount bounds: min exceeds max")
	}
	if f.Approval == "" {
		f.Approval = ApprovalAll
	}
	if _, err := s.gw.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	rows, truncated, err := s.gw.SearchVoucherLines(ctx, companyID, f)
	if err != nil {
		return nil, err
	}

	result := &InquiryResult{Rows: rows, Truncated: truncated}
	for _, row := range rows {
		result.TotalDebit = result.TotalDebit.Add(row.Debit)
		result.TotalCredit = result.TotalCredit.Add(row.Credit)
	}
	return result, nil
}
