package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanceSheetStub(balances map[string][]AccountActivity) *stubGateway {
	return &stubGateway{
		accountBalances: func(_ int, prefix string, _ time.Time) ([]AccountActivity, error) {
			return balances[prefix], nil
		},
	}
}

func TestBalanceSheetBalanced(t *testing.T) {
	gw := balanceSheetStub(map[string][]AccountActivity{
		PrefixAssets: {
			{Code: "1000", Name: "Cash", NormalSide: Debit, NetDebit: dec("30000")},
			{Code: "1100", Name: "Accounts Receivable", NormalSide: Debit, NetDebit: dec("20000")},
		},
		PrefixLiabilities: {
			{Code: "2000", Name: "Accounts Payable", NormalSide: Credit, NetDebit: dec("-30000")},
		},
		PrefixEquity: {
			{Code: "3000", Name: "Share Capital", NormalSide: Credit, NetDebit: dec("-20000")},
		},
	})

	sheet, err := NewBalanceSheetService(gw).Generate(context.Background(), BalanceSheetRequest{
		CompanyID: 1, AsOf: day(2026, time.March, 31),
	})
	require.NoError(t, err)

	assert.True(t, sheet.Assets.Total.Equal(dec("50000")))
	assert.True(t, sheet.Liabilities.Total.Equal(dec("30000")))
	assert.True(t, sheet.Equity.Total.Equal(dec("20000")))
	assert.True(t, sheet.TotalLiabilitiesAndEquity.Equal(dec("50000")))
	assert.True(t, sheet.Balanced)
	assert.True(t, sheet.Discrepancy.IsZero())

	// Credit-normal rows display in their normal sign.
	require.Len(t, sheet.Liabilities.Accounts, 1)
	assert.True(t, sheet.Liabilities.Accounts[0].Balance.Equal(dec("30000")))
}

func TestBalanceSheetDiscrepancy(t *testing.T) {
	gw := balanceSheetStub(map[string][]AccountActivity{
		PrefixAssets: {
			{Code: "1000", Name: "Cash", NormalSide: Debit, NetDebit: dec("50001")},
		},
		PrefixLiabilities: {
			{Code: "2000", Name: "Accounts Payable", NormalSide: Credit, NetDebit: dec("-30000")},
		},
		PrefixEquity: {
			{Code: "3000", Name: "Share Capital", NormalSide: Credit, NetDebit: dec("-20000")},
		},
	})

	sheet, err := NewBalanceSheetService(gw).Generate(context.Background(), BalanceSheetRequest{
		CompanyID: 1, AsOf: day(2026, time.March, 31),
	})
	require.NoError(t, err)
	assert.False(t, sheet.Balanced)
	assert.True(t, sheet.Discrepancy.Equal(dec("1")))
}

func TestBalanceSheetExcludesZeroBalances(t *testing.T) {
	gw := balanceSheetStub(map[string][]AccountActivity{
		PrefixAssets: {
			{Code: "1000", Name: "Cash", NormalSide: Debit, NetDebit: dec("100")},
			{Code: "1200", Name: "Inventory", NormalSide: Debit, NetDebit: dec("0")},
		},
	})

	sheet, err := NewBalanceSheetService(gw).Generate(context.Background(), BalanceSheetRequest{
		CompanyID: 1, AsOf: day(2026, time.March, 31),
	})
	require.NoError(t, err)
	require.Len(t, sheet.Assets.Accounts, 1)
	assert.Equal(t, "1000", sheet.Assets.Accounts[0].Code)
	// Empty sections still carry an explicit zero total.
	assert.True(t, sheet.Liabilities.Total.IsZero())
	assert.Empty(t, sheet.Liabilities.Accounts)
}

func TestBalanceSheetRequiresAsOf(t *testing.T) {
	_, err := NewBalanceSheetService(&stubGateway{}).Generate(context.Background(),
		BalanceSheetRequest{CompanyID: 1})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestBalanceSheetReportRows(t *testing.T) {
	gw := balanceSheetStub(map[string][]AccountActivity{
		PrefixAssets: {
			{Code: "1000", Name: "Cash", NormalSide: Debit, NetDebit: dec("50000")},
		},
		PrefixLiabilities: {
			{Code: "2000", Name: "Accounts Payable", NormalSide: Credit, NetDebit: dec("-30000")},
		},
		PrefixEquity: {
			{Code: "3000", Name: "Share Capital", NormalSide: Credit, NetDebit: dec("-20000")},
		},
	})
	sheet, err := NewBalanceSheetService(gw).Generate(context.Background(), BalanceSheetRequest{
		CompanyID: 1, AsOf: day(2026, time.March, 31),
	})
	require.NoError(t, err)

	rows := sheet.ReportRows()
	// Three sections of (header, one account, subtotal, spacer) plus the
	// grand total row.
	require.Len(t, rows, 13)
	assert.Equal(t, RowSection, rows[0].Kind)
	assert.Equal(t, "Assets", rows[0].Label)
	assert.Equal(t, "1000 Cash", rows[1].Label)
	assert.Equal(t, "Assets Total", rows[2].Label)
	assert.Equal(t, RowSpacer, rows[3].Kind)
	assert.Equal(t, "Total Liabilities and Equity", rows[12].Label)
	require.NotNil(t, rows[12].Amount)
	assert.True(t, rows[12].Amount.Equal(dec("50000")))
}
