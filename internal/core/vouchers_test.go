package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherInquiryTotals(t *testing.T) {
	gw := &stubGateway{
		searchVoucherLines: func(_ int, f VoucherFilter) ([]VoucherLineRow, bool, error) {
			assert.Equal(t, ApprovalAll, f.Approval)
			return []VoucherLineRow{
				{VoucherNo: "JV-001", Debit: dec("500")},
				{VoucherNo: "JV-001", Credit: dec("500")},
				{VoucherNo: "JV-002", Debit: dec("120.50")},
			}, false, nil
		},
	}

	res, err := NewVoucherInquiryService(gw).Search(context.Background(), 1, VoucherFilter{
		From: day(2026, time.March, 1), To: day(2026, time.March, 31),
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.True(t, res.TotalDebit.Equal(dec("620.50")))
	assert.True(t, res.TotalCredit.Equal(dec("500")))
	assert.False(t, res.Truncated)
}

func TestVoucherInquiryTruncationFlag(t *testing.T) {
	gw := &stubGateway{
		searchVoucherLines: func(int, VoucherFilter) ([]VoucherLineRow, bool, error) {
			rows := make([]VoucherLineRow, MaxInquiryRows)
			return rows, true, nil
		},
	}
	res, err := NewVoucherInquiryService(gw).Search(context.Background(), 1, VoucherFilter{
		From: day(2026, time.January, 1), To: day(2026, time.December, 31),
	})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Len(t, res.Rows, MaxInquiryRows)
}

func TestVoucherInquiryRequiresRange(t *testing.T) {
	svc := NewVoucherInquiryService(&stubGateway{})

	_, err := svc.Search(context.Background(), 1, VoucherFilter{To: day(2026, time.March, 31)})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.Search(context.Background(), 1, VoucherFilter{
		From: day(2026, time.March, 31), To: day(2026, time.March, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestVoucherInquiryAmountBounds(t *testing.T) {
	min, max := dec("1000"), dec("10")
	_, err := NewVoucherInquiryService(&stubGateway{}).Search(context.Background(), 1, VoucherFilter{
		From: day(2026, time.March, 1), To: day(2026, time.March, 31),
		MinAmount: &min, MaxAmount: &max,
	})
	assert.Error(t, err)
}

func TestVoucherInquiryEmptyResult(t *testing.T) {
	res, err := NewVoucherInquiryService(&stubGateway{}).Search(context.Background(), 1, VoucherFilter{
		From: day(2026, time.March, 1), To: day(2026, time.March, 31),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.True(t, res.TotalDebit.IsZero())
	assert.True(t, res.TotalCredit.IsZero())
}

func TestVoucherInquiryUnknownCompany(t *testing.T) {
	gw := &stubGateway{
		getCompany: func(int) (*Company, error) { return nil, ErrCompanyNotFound },
	}
	_, err := NewVoucherInquiryService(gw).Search(context.Background(), 99, VoucherFilter{
		From: day(2026, time.March, 1), To: day(2026, time.March, 31),
	})
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}
