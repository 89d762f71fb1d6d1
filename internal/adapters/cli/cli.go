package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ledger-insight/internal/app"
	"ledger-insight/internal/core"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	if len(args) == 0 {
		log.Fatal("Usage: app <income-statement|balance-sheet|balance|vouchers|dashboard|ask|companies> [flags]")
	}

	switch args[0] {
	case "income-statement", "pl":
		fs := flag.NewFlagSet("income-statement", flag.ExitOnError)
		company := fs.Int("company", 1, "company id")
		year := fs.Int("year", time.Now().Year(), "calendar year")
		month := fs.Int("month", int(time.Now().Month()), "calendar month")
		ly := fs.Bool("ly", false, "compare with same month last year")
		lm := fs.Bool("lm", false, "compare with last month")
		_ = fs.Parse(args[1:])

		report, err := svc.GetIncomeStatement(ctx, core.IncomeStatementRequest{
			CompanyID: *company, Year: *year, Month: *month,
			CompareLastYear: *ly, CompareLastMonth: *lm,
		})
		if err != nil {
			log.Fatalf("Failed to generate income statement: %v", err)
		}
		printSnapshot(report.Snapshot())
		for _, warning := range report.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", warning)
		}

	case "balance-sheet", "bs":
		fs := flag.NewFlagSet("balance-sheet", flag.ExitOnError)
		company := fs.Int("company", 1, "company id")
		asOf := fs.String("as-of", time.Now().Format("2006-01-02"), "as-of date (YYYY-MM-DD)")
		_ = fs.Parse(args[1:])

		date, err := time.Parse("2006-01-02", *asOf)
		if err != nil {
			log.Fatalf("Invalid as-of date: %v", err)
		}
		report, err := svc.GetBalanceSheet(ctx, core.BalanceSheetRequest{CompanyID: *company, AsOf: date})
		if err != nil {
			log.Fatalf("Failed to generate balance sheet: %v", err)
		}
		printSnapshot(report.Snapshot())
		if !report.Balanced {
			fmt.Fprintf(os.Stderr, "warning: sheet out of balance by %s\n", report.Discrepancy.StringFixed(2))
		}

	case "balance", "bal":
		fs := flag.NewFlagSet("balance", flag.ExitOnError)
		company := fs.Int("company", 1, "company id")
		account := fs.String("account", "", "account code or prefix")
		from := fs.String("from", "", "period start (YYYY-MM-DD)")
		to := fs.String("to", "", "period end (YYYY-MM-DD)")
		_ = fs.Parse(args[1:])

		start, end, err := parseRange(*from, *to)
		if err != nil {
			log.Fatal(err)
		}
		result, err := svc.GetAccountBalance(ctx, *company, *account, start, end)
		if err != nil {
			log.Fatalf("Failed to calculate balance: %v", err)
		}
		printBalance(result)

	case "vouchers":
		fs := flag.NewFlagSet("vouchers", flag.ExitOnError)
		company := fs.Int("company", 1, "company id")
		from := fs.String("from", "", "period start (YYYY-MM-DD)")
		to := fs.String("to", "", "period end (YYYY-MM-DD)")
		memo := fs.String("memo", "", "memo keyword")
		_ = fs.Parse(args[1:])

		start, end, err := parseRange(*from, *to)
		if err != nil {
			log.Fatal(err)
		}
		result, err := svc.SearchVouchers(ctx, *company, core.VoucherFilter{
			From: start, To: end, MemoKeyword: *memo, Approval: core.ApprovalAll,
		})
		if err != nil {
			log.Fatalf("Voucher inquiry failed: %v", err)
		}
		printJSON(result)

	case "dashboard":
		fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
		company := fs.Int("company", 1, "company id")
		from := fs.String("from", "", "period start (YYYY-MM-DD)")
		to := fs.String("to", "", "period end (YYYY-MM-DD)")
		_ = fs.Parse(args[1:])

		start, end, err := parseRange(*from, *to)
		if err != nil {
			log.Fatal(err)
		}
		d, err := svc.GetDashboard(ctx, core.DashboardRequest{CompanyID: *company, From: start, To: end})
		if err != nil {
			log.Fatalf("Failed to build dashboard: %v", err)
		}
		printJSON(d)

	case "ask":
		fs := flag.NewFlagSet("ask", flag.ExitOnError)
		company := fs.Int("company", 1, "company id")
		year := fs.Int("year", time.Now().Year(), "calendar year")
		month := fs.Int("month", int(time.Now().Month()), "calendar month")
		_ = fs.Parse(args[1:])
		if fs.NArg() < 1 {
			log.Fatal("Usage: app ask [flags] \"<question>\"")
		}

		result, err := svc.AskDataQuestion(ctx, app.AskRequest{
			CompanyID: *company, Year: *year, Month: *month,
			Question: strings.Join(fs.Args(), " "),
		})
		if err != nil {
			log.Fatalf("Assistant error: %v", err)
		}
		fmt.Println(result.Answer.Text)
		if !result.Answer.Grounded {
			fmt.Fprintln(os.Stderr, "note: answer not grounded in the report tables")
		}

	case "companies":
		companies, err := svc.ListCompanies(ctx)
		if err != nil {
			log.Fatalf("Failed to list companies: %v", err)
		}
		printJSON(companies)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: income-statement, balance-sheet, balance, vouchers, dashboard, ask, companies", args[0])
	}
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -from date: %w", err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -to date: %w", err)
	}
	return start, end, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printSnapshot(snap core.TableSnapshot) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  %s\n", snap.Title)
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  %-28s", snap.Columns[0])
	for _, col := range snap.Columns[1:] {
		fmt.Printf(" %14s", col)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", 70))
	for _, row := range snap.Rows {
		fmt.Printf("  %-28s", row[0])
		for _, cell := range row[1:] {
			fmt.Printf(" %14s", cell)
		}
		fmt.Println()
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printBalance(b *core.BalanceResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  Account : %s — %s\n", b.Account.Code, b.Account.Name)
	fmt.Printf("  Period  : %s to %s\n", b.PeriodStart.Format("2006-01-02"), b.PeriodEnd.Format("2006-01-02"))
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-20s %15s\n", "Opening", b.Opening.StringFixed(2))
	fmt.Printf("  %-20s %15s\n", "Debits", b.PeriodDebits.StringFixed(2))
	fmt.Printf("  %-20s %15s\n", "Credits", b.PeriodCredits.StringFixed(2))
	fmt.Printf("  %-20s %15s\n", "Closing", b.Closing.StringFixed(2))
	fmt.Println(strings.Repeat("=", 62))
}
