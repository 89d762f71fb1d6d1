package core_test

import (
	"context"
	"os"
	"testing"
	"time"

	"ledger-insight/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB. Voucher JV-003 is pending and must stay out
	// of every balance.
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE voucher_lines, vouchers, accounts, employees, users, companies RESTART IDENTITY CASCADE;

		INSERT INTO companies (id, code, name) VALUES (1, '1000', 'Test Company');

		INSERT INTO users (id, company_id, username, email, password_hash, role, is_active)
		VALUES (1, 1, 'tester', 'tester@example.com', 'x', 'accountant', true);

		INSERT INTO employees (id, user_id, name) VALUES (1, 'tester', 'Test Preparer');

		INSERT INTO accounts (code, name, normal_side) VALUES
		('1000', 'Cash', 'D'),
		('2000', 'Accounts Payable', 'C'),
		('4000', 'Sales Revenue', 'C'),
		('5000', 'Cost of Goods Sold', 'D');

		INSERT INTO vouchers (id, voucher_no, voucher_date, status, company_id, preparer_id, memo) VALUES
		(1, 'JV-001', '2026-02-10', 'approved', 1, 1, 'opening sale'),
		(2, 'JV-002', '2026-03-05', 'approved', 1, 1, 'march sale'),
		(3, 'JV-003', '2026-03-20', 'pending',  1, 1, 'unreviewed sale');

		INSERT INTO voucher_lines (voucher_id, line_no, account_code, amount, side, memo) VALUES
		(1, 1, '1000', 1000, 'D', 'cash in'),
		(1, 2, '4000', 1000, 'C', 'revenue'),
		(2, 1, '1000', 500,  'D', 'cash in'),
		(2, 2, '4000', 500,  'C', 'revenue'),
		(3, 1, '1000', 9999, 'D', 'cash in'),
		(3, 2, '4000', 9999, 'C', 'revenue');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestGateway_SumSignedAmount(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	gw := core.NewLedgerGateway(pool)
	ctx := context.Background()

	// Approved activity only: JV-003's 9999 is excluded.
	sum, err := gw.SumSignedAmount(ctx, 1, "1000", core.Through(date(2026, 3, 31)), true)
	if err != nil {
		t.Fatalf("SumSignedAmount failed: %v", err)
	}
	if !sum.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected net debit 1500, got %s", sum)
	}

	// Revenue prefix sums negative in the raw convention.
	sum, err = gw.SumSignedAmount(ctx, 1, "4", core.Through(date(2026, 3, 31)), true)
	if err != nil {
		t.Fatalf("SumSignedAmount failed: %v", err)
	}
	if !sum.Equal(decimal.NewFromInt(-1500)) {
		t.Errorf("Expected net -1500 for revenue prefix, got %s", sum)
	}

	// Date bounds are inclusive on voucher_date.
	sum, err = gw.SumSignedAmount(ctx, 1, "1000", core.Between(date(2026, 3, 1), date(2026, 3, 31)), true)
	if err != nil {
		t.Fatalf("SumSignedAmount failed: %v", err)
	}
	if !sum.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected March net debit 500, got %s", sum)
	}
}

func TestGateway_SumDebitCredit(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	gw := core.NewLedgerGateway(pool)
	dc, err := gw.SumDebitCredit(context.Background(), 1, "1000", core.Between(date(2026, 2, 1), date(2026, 3, 31)))
	if err != nil {
		t.Fatalf("SumDebitCredit failed: %v", err)
	}
	if !dc.Debit.Equal(decimal.NewFromInt(1500)) || !dc.Credit.IsZero() {
		t.Errorf("Expected D=1500 C=0, got D=%s C=%s", dc.Debit, dc.Credit)
	}
}

func TestGateway_AccountBalancesAsOf(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	gw := core.NewLedgerGateway(pool)
	activities, err := gw.AccountBalancesAsOf(context.Background(), 1, "1", date(2026, 3, 31))
	if err != nil {
		t.Fatalf("AccountBalancesAsOf failed: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("Expected 1 active asset account, got %d", len(activities))
	}
	if activities[0].Code != "1000" || !activities[0].NetDebit.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Unexpected activity row: %+v", activities[0])
	}
}

func TestGateway_SearchVoucherLines(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	gw := core.NewLedgerGateway(pool)
	ctx := context.Background()

	rows, truncated, err := gw.SearchVoucherLines(ctx, 1, core.VoucherFilter{
		From:     date(2026, 1, 1),
		To:       date(2026, 12, 31),
		Approval: core.ApprovalAll,
	})
	if err != nil {
		t.Fatalf("SearchVoucherLines failed: %v", err)
	}
	if truncated {
		t.Error("Did not expect truncation")
	}
	if len(rows) != 6 {
		t.Fatalf("Expected 6 lines, got %d", len(rows))
	}
	if rows[0].PreparerName != "Test Preparer" {
		t.Errorf("Expected preparer join, got %q", rows[0].PreparerName)
	}

	// Pending filter matches everything that is not approved.
	rows, _, err = gw.SearchVoucherLines(ctx, 1, core.VoucherFilter{
		From:     date(2026, 1, 1),
		To:       date(2026, 12, 31),
		Approval: core.ApprovalPending,
	})
	if err != nil {
		t.Fatalf("SearchVoucherLines failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 pending lines, got %d", len(rows))
	}
	if rows[0].VoucherNo != "JV-003" {
		t.Errorf("Expected JV-003, got %s", rows[0].VoucherNo)
	}

	// Memo keyword matches line memos.
	rows, _, err = gw.SearchVoucherLines(ctx, 1, core.VoucherFilter{
		From:        date(2026, 1, 1),
		To:          date(2026, 12, 31),
		MemoKeyword: "cash",
	})
	if err != nil {
		t.Fatalf("SearchVoucherLines failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 cash lines, got %d", len(rows))
	}
}

func TestGateway_Lookups(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	gw := core.NewLedgerGateway(pool)
	ctx := context.Background()

	account, err := gw.GetAccount(ctx, "2000")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if account.NormalSide != core.Credit {
		t.Errorf("Expected credit-normal account, got %s", account.NormalSide)
	}

	if _, err := gw.GetAccount(ctx, "9999"); err == nil {
		t.Error("Expected error for unknown account")
	}

	if _, err := gw.GetCompany(ctx, 42); err == nil {
		t.Error("Expected error for unknown company")
	}

	companies, err := gw.ListCompanies(ctx)
	if err != nil || len(companies) != 1 {
		t.Fatalf("Expected 1 company, got %d (err=%v)", len(companies), err)
	}
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
