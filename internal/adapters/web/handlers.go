package web

import (
	"log/slog"
	"net/http"
	"time"

	"ledger-insight/internal/app"
	"ledger-insight/internal/core"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc        app.ApplicationService
	jwtSecret  string
	sessionTTL time.Duration
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, logger *slog.Logger, allowedOrigins []string, jwtSecret string, sessionTTL time.Duration) http.Handler {
	h := &Handler{
		svc:        svc,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))

	// ── Health (public) ──────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public API) ────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Reference data
		r.Get("/api/companies", h.listCompanies)
		r.Get("/api/accounts", h.listAccounts)
		r.Get("/api/employees", h.listEmployees)

		// Reports
		r.Get("/api/reports/income-statement", h.incomeStatement)
		r.Get("/api/reports/balance-sheet", h.balanceSheet)
		r.Get("/api/reports/balance", h.accountBalance)
		r.Get("/api/reports/balance/movements", h.accountMovements)

		// Dashboard and inquiries
		r.Get("/api/dashboard", h.dashboard)
		r.Post("/api/vouchers/search", h.searchVouchers)

		// Ask your data
		r.Post("/api/ask", h.ask)

		// Cache maintenance, called after upstream data loads.
		r.Post("/api/cache/invalidate", h.invalidateCache)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.svc.ListCompanies(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"companies": companies})
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"accounts": accounts})
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"employees": employees})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDParam(w, r)
	if !ok {
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

	d, err := h.svc.GetDashboard(r.Context(), core.DashboardRequest{
		CompanyID: companyID, From: from, To: to,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, d)
}

func (h *Handler) searchVouchers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID    int      `json:"company_id"`
		From         string   `json:"from"`
		To           string   `json:"to"`
		AccountCodes []string `json:"account_codes"`
		MemoKeyword  string   `json:"memo_keyword"`
		MinAmount    *string  `json:"min_amount"`
		MaxAmount    *string  `json:"max_amount"`
		VoucherNo    string   `json:"voucher_no"`
		PreparerIDs  []string `json:"preparer_ids"`
		Approval     string   `json:"approval"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	filter, err := buildVoucherFilter(req.From, req.To, req.AccountCodes, req.MemoKeyword,
		req.MinAmount, req.MaxAmount, req.VoucherNo, req.PreparerIDs, req.Approval)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.SearchVouchers(r.Context(), req.CompanyID, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var req app.AskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Question == "" {
		writeError(w, r, "question required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.AskDataQuestion(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) invalidateCache(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.InvalidateReportCache(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "invalidated"})
}
