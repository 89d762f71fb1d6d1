package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type pgGateway struct {
	pool *pgxpool.Pool
}

// NewLedgerGateway constructs a LedgerGateway backed by PostgreSQL.
func NewLedgerGateway(pool *pgxpool.Pool) LedgerGateway {
	return &pgGateway{pool: pool}
}

// prefixPattern builds the LIKE pattern for an account-code prefix. Codes
// are digit strings, so no LIKE metacharacter escaping is needed.
func prefixPattern(prefix string) string {
	return prefix + "%"
}

func (g *pgGateway) SumSignedAmount(ctx context.Context, companyID int, accountPrefix string, r DateRange, approvedOnly bool) (decimal.Decimal, error) {
	q := `
		SELECT COALESCE(SUM(CASE WHEN l.side = 'D' THEN l.amount ELSE -l.amount END), 0)
		FROM voucher_lines l
		JOIN vouchers v ON v.id = l.voucher_id
		WHERE v.company_id = $1
		  AND l.account_code LIKE $2`

	args := []any{companyID, prefixPattern(accountPrefix)}
	if approvedOnly {
		q += " AND v.status = 'approved'"
	}
	q, args = appendRange(q, args, r)

	var sum decimal.Decimal
	if err := g.pool.QueryRow(ctx, q, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum signed amount for prefix %s: %w", accountPrefix, err)
	}
	return sum, nil
}

func (g *pgGateway) SumDebitCredit(ctx context.Context, companyID int, accountPrefix string, r DateRange) (DebitCredit, error) {
	q := `
		SELECT COALESCE(SUM(CASE WHEN l.side = 'D' THEN l.amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN l.side = 'C' THEN l.amount ELSE 0 END), 0)
		FROM voucher_lines l
		JOIN vouchers v ON v.id = l.voucher_id
		WHERE v.company_id = $1
		  AND v.status = 'approved'
		  AND l.account_code LIKE $2`

	args := []any{companyID, prefixPattern(accountPrefix)}
	q, args = appendRange(q, args, r)

	var dc DebitCredit
	if err := g.pool.QueryRow(ctx, q, args...).Scan(&dc.Debit, &dc.Credit); err != nil {
		return DebitCredit{}, fmt.Errorf("sum debit/credit for prefix %s: %w", accountPrefix, err)
	}
	return dc, nil
}

// AccountBalancesAsOf aggregates approved activity per leaf account via a
// subquery so the LEFT JOIN cannot leak unapproved or out-of-window lines
// into the totals.
func (g *pgGateway) AccountBalancesAsOf(ctx context.Context, companyID int, accountPrefix string, asOf time.Time) ([]AccountActivity, error) {
	const q = `
		SELECT a.code, a.name, a.normal_side, COALESCE(s.net_debit, 0) AS net_debit
		FROM accounts a
		LEFT JOIN (
		    SELECT l.account_code,
		           SUM(CASE WHEN l.side = 'D' THEN l.amount ELSE -l.amount END) AS net_debit
		    FROM voucher_lines l
		    JOIN vouchers v ON v.id = l.voucher_id
		    WHERE v.company_id = $1
		      AND v.status = 'approved'
		      AND v.voucher_date <= $2
		    GROUP BY l.account_code
		) s ON s.account_code = a.code
		WHERE a.code LIKE $3
		  AND COALESCE(s.net_debit, 0) <> 0
		ORDER BY a.code`

	rows, err := g.pool.Query(ctx, q, companyID, asOf, prefixPattern(accountPrefix))
	if err != nil {
		return nil, fmt.Errorf("account balances for prefix %s: %w", accountPrefix, err)
	}
	defer rows.Close()

	var out []AccountActivity
	for rows.Next() {
		var a AccountActivity
		if err := rows.Scan(&a.Code, &a.Name, &a.NormalSide, &a.NetDebit); err != nil {
			return nil, fmt.Errorf("scan account balance row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("account balance rows: %w", err)
	}
	return out, nil
}

func (g *pgGateway) ListMovements(ctx context.Context, companyID int, accountPrefix string, r DateRange, side Side) ([]Movement, error) {
	q := `
		SELECT v.voucher_date,
		       v.voucher_no,
		       l.memo,
		       l.account_code,
		       COALESCE(a.name, ''),
		       CASE WHEN l.side = 'D' THEN l.amount ELSE 0 END,
		       CASE WHEN l.side = 'C' THEN l.amount ELSE 0 END,
		       COALESCE(e.name, '')
		FROM voucher_lines l
		JOIN vouchers v       ON v.id = l.voucher_id
		LEFT JOIN accounts a  ON a.code = l.account_code
		LEFT JOIN employees e ON e.id = v.preparer_id
		WHERE v.company_id = $1
		  AND v.status = 'approved'
		  AND l.account_code LIKE $2
		  AND l.side = $3`

	args := []any{companyID, prefixPattern(accountPrefix), string(side)}
	q, args = appendRange(q, args, r)
	q += " ORDER BY v.voucher_date, v.voucher_no, l.line_no"

	rows, err := g.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements for prefix %s: %w", accountPrefix, err)
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.Date, &m.VoucherNo, &m.Memo, &m.AccountCode, &m.AccountName, &m.Debit, &m.Credit, &m.PreparerName); err != nil {
			return nil, fmt.Errorf("scan movement row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movement rows: %w", err)
	}
	return out, nil
}

func (g *pgGateway) SearchVoucherLines(ctx context.Context, companyID int, f VoucherFilter) ([]VoucherLineRow, bool, error) {
	q := `
		SELECT v.voucher_date,
		       v.voucher_no,
		       v.status,
		       l.memo,
		       l.account_code,
		       COALESCE(a.name, ''),
		       CASE WHEN l.side = 'D' THEN l.amount ELSE 0 END,
		       CASE WHEN l.side = 'C' THEN l.amount ELSE 0 END,
		       COALESCE(e.name, '')
		FROM voucher_lines l
		JOIN vouchers v       ON v.id = l.voucher_id
		LEFT JOIN accounts a  ON a.code = l.account_code
		LEFT JOIN employees e ON e.id = v.preparer_id
		WHERE v.company_id = $1
		  AND v.voucher_date >= $2
		  AND v.voucher_date <= $3`

	args := []any{companyID, f.From, f.To}

	if len(f.AccountCodes) > 0 {
		args = append(args, f.AccountCodes)
		q += fmt.Sprintf(" AND l.account_code = ANY($%d)", len(args))
	}
	if f.MemoKeyword != "" {
		args = append(args, "%"+f.MemoKeyword+"%")
		q += fmt.Sprintf(" AND l.memo LIKE $%d", len(args))
	}
	if f.MinAmount != nil {
		args = append(args, *f.MinAmount)
		q += fmt.Sprintf(" AND l.amount >= $%d", len(args))
	}
	if f.MaxAmount != nil {
		args = append(args, *f.MaxAmount)
		q += fmt.Sprintf(" AND l.amount <= $%d", len(args))
	}
	if f.VoucherNo != "" {
		args = append(args, "%"+f.VoucherNo+"%")
		q += fmt.Sprintf(" AND v.voucher_no LIKE $%d", len(args))
	}
	if len(f.PreparerIDs) > 0 {
		args = append(args, f.PreparerIDs)
		q += fmt.Sprintf(" AND e.user_id = ANY($%d)", len(args))
	}
	switch f.Approval {
	case ApprovalApproved:
		q += " AND v.status = 'approved'"
	case ApprovalPending:
		q += " AND v.status <> 'approved'"
	}

	// One extra row past the cap detects truncation without a count query.
	q += fmt.Sprintf(" ORDER BY v.voucher_date, v.voucher_no, l.line_no LIMIT %d", MaxInquiryRows+1)

	rows, err := g.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, false, fmt.Errorf("voucher inquiry: %w", err)
	}
	defer rows.Close()

	var out []VoucherLineRow
	for rows.Next() {
		var row VoucherLineRow
		if err := rows.Scan(&row.Date, &row.VoucherNo, &row.Status, &row.LineMemo, &row.AccountCode, &row.AccountName, &row.Debit, &row.Credit, &row.PreparerName); err != nil {
			return nil, false, fmt.Errorf("scan voucher line row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("voucher inquiry rows: %w", err)
	}

	truncated := len(out) > MaxInquiryRows
	if truncated {
		out = out[:MaxInquiryRows]
	}
	return out, truncated, nil
}

func (g *pgGateway) GetAccount(ctx context.Context, code string) (*Account, error) {
	a := &Account{}
	err := g.pool.QueryRow(ctx,
		"SELECT code, name, normal_side FROM accounts WHERE code = $1", code,
	).Scan(&a.Code, &a.Name, &a.NormalSide)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", code, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("fetch account %s: %w", code, err)
	}
	return a, nil
}

func (g *pgGateway) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := g.pool.Query(ctx, "SELECT code, name, normal_side FROM accounts ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.Code, &a.Name, &a.NormalSide); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (g *pgGateway) GetCompany(ctx context.Context, companyID int) (*Company, error) {
	c := &Company{}
	err := g.pool.QueryRow(ctx,
		"SELECT id, code, name FROM companies WHERE id = $1", companyID,
	).Scan(&c.ID, &c.Code, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company %d: %w", companyID, ErrCompanyNotFound)
		}
		return nil, fmt.Errorf("fetch company %d: %w", companyID, err)
	}
	return c, nil
}

func (g *pgGateway) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := g.pool.Query(ctx, "SELECT id, code, name FROM companies ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (g *pgGateway) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := g.pool.Query(ctx, "SELECT id, user_id, name FROM employees ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// appendRange appends voucher-date bounds to a WHERE clause under
// construction.
func appendRange(q string, args []any, r DateRange) (string, []any) {
	if r.From != nil {
		args = append(args, *r.From)
		q += fmt.Sprintf(" AND v.voucher_date >= $%d", len(args))
	}
	if r.To != nil {
		args = append(args, *r.To)
		q += fmt.Sprintf(" AND v.voucher_date <= $%d", len(args))
	}
	return q, args
}
