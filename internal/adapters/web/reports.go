package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ledger-insight/internal/core"

	"github.com/shopspring/decimal"
)

// companyIDParam parses the required company_id query parameter.
func companyIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("company_id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, "company_id must be a positive integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// dateParam parses a YYYY-MM-DD query parameter.
func dateParam(w http.ResponseWriter, r *http.Request, name string, required bool) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			writeError(w, r, name+" is required (YYYY-MM-DD)", "BAD_REQUEST", http.StatusBadRequest)
			return time.Time{}, false
		}
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeError(w, r, name+" must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return time.Time{}, false
	}
	return t, true
}

// intParam parses a required integer query parameter.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, name+" must be an integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func boolParam(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true" || r.URL.Query().Get(name) == "1"
}

// incomeStatement handles GET /api/reports/income-statement.
// format=csv streams the report table instead of JSON.
func (h *Handler) incomeStatement(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDParam(w, r)
	if !ok {
		return
	}
	year, ok := intParam(w, r, "year")
	if !ok {
		return
	}
	month, ok := intParam(w, r, "month")
	if !ok {
		return
	}

	report, err := h.svc.GetIncomeStatement(r.Context(), core.IncomeStatementRequest{
		CompanyID:        companyID,
		Year:             year,
		Month:            month,
		CompareLastYear:  boolParam(r, "compare_last_year"),
		CompareLastMonth: boolParam(r, "compare_last_month"),
		AllowPartial:     boolParam(r, "allow_partial"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, fmt.Sprintf("income_statement_%04d_%02d.csv", year, month), report.Snapshot())
		return
	}
	writeJSON(w, report)
}

// balanceSheet handles GET /api/reports/balance-sheet.
func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDParam(w, r)
	if !ok {
		return
	}
	asOf, ok := dateParam(w, r, "as_of", true)
	if !ok {
		return
	}

	report, err := h.svc.GetBalanceSheet(r.Context(), core.BalanceSheetRequest{
		CompanyID: companyID, AsOf: asOf,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, "balance_sheet_"+asOf.Format("2006-01-02")+".csv", report.Snapshot())
		return
	}
	writeJSON(w, report)
}

// accountBalance handles GET /api/reports/balance.
func (h *Handler) accountBalance(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDParam(w, r)
	if !ok {
		return
	}
	code := r.URL.Query().Get("account")
	if code == "" {
		writeError(w, r, "account is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	from, ok := dateParam(w, r, "from", true)
	if !ok {
		return
	}
	to, ok := dateParam(w, r, "to", true)
	if !ok {
		return
	}

	result, err := h.svc.GetAccountBalance(r.Context(), companyID, code, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// accountMovements handles GET /api/reports/balance/movements.
func (h *Handler) accountMovements(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDParam(w, r)
	if !ok {
		return
	}
	code := r.URL.Query().Get("account")
	if code == "" {
		writeError(w, r, "account is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	side := core.Side(r.URL.Query().Get("side"))
	if side != core.Debit && side != core.Credit {
		writeError(w, r, "side must be D or C", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	from, ok := dateParam(w, r, "from", true)
	if !ok {
		return
	}
	to, ok := dateParam(w, r, "to", true)
	if !ok {
		return
	}

	movements, err := h.svc.ListAccountMovements(r.Context(), companyID, code, from, to, side)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"movements": movements})
}

// buildVoucherFilter converts wire-level strings into a core.VoucherFilter.
func buildVoucherFilter(from, to string, accountCodes []string, memoKeyword string,
	minAmount, maxAmount *string, voucherNo string, preparerIDs []string, approval string) (core.VoucherFilter, error) {

	f := core.VoucherFilter{
		AccountCodes: accountCodes,
		MemoKeyword:  memoKeyword,
		VoucherNo:    voucherNo,
		PreparerIDs:  preparerIDs,
		Approval:     core.ApprovalFilter(approval),
	}
	if approval == "" {
		f.Approval = core.ApprovalAll
	}

	var err error
	if f.From, err = time.Parse("2006-01-02", from); err != nil {
		return f, fmt.Errorf("from must be YYYY-MM-DD")
	}
	if f.To, err = time.Parse("2006-01-02", to); err != nil {
		return f, fmt.Errorf("to must be YYYY-MM-DD")
	}
	if minAmount != nil {
		d, err := decimal.NewFromString(*minAmount)
		if err != nil {
			return f, fmt.Errorf("min_amount must be a decimal number")
		}
		f.MinAmount = &d
	}
	if maxAmount != nil {
		d, err := decimal.NewFromString(*maxAmount)
		if err != nil {
			return f, fmt.Errorf("max_amount must be a decimal number")
		}
		f.MaxAmount = &d
	}
	return f, nil
}

// writeCSV streams a report table as a CSV attachment.
func writeCSV(w http.ResponseWriter, filename string, snap core.TableSnapshot) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(snap.Columns)
	for _, row := range snap.Rows {
		_ = cw.Write(row)
	}
	cw.Flush()
}
