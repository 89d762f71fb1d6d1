package core

import "errors"

// Sentinel errors for invalid report parameters. These are raised before
// any aggregate query executes — no default substitution. Query and
// connection failures from the ledger store are wrapped pgx errors and
// propagate unchanged: "zero activity" and "query failed" are never
// conflated.
var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrUserNotFound     = errors.New("user not found")
)
