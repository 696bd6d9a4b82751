package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"gigledger/internal/backend"
	"gigledger/internal/config"
	"gigledger/internal/core"
	"gigledger/internal/services"
)

type reportOptions struct {
	db        string
	seed      string
	month     string
	start     string
	months    int
	category  string
	essential string
	year      int
	now       func() time.Time
}

// NewRootCommand builds the ledgerctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	o := &reportOptions{now: now}

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Freelance forecast and reconciliation reports",
		Long:          "Print month summaries, expense forecasts, analytics and income reports for a gigledger store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.db, "db", "", "SQLite database path (defaults to the configured backend)")
	root.PersistentFlags().StringVar(&o.seed, "seed", "", "JSON seed file for an in-memory store")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Month balance and cash-flow split",
		RunE:  o.runSummary,
	}
	summary.Flags().StringVar(&o.month, "month", "", "Month as YYYY-MM (default current month)")

	forecast := &cobra.Command{
		Use:   "forecast",
		Short: "Recurring expense grid over a window of months",
		RunE:  o.runForecast,
	}
	forecast.Flags().StringVar(&o.start, "start", "", "First month as YYYY-MM (default current month)")
	forecast.Flags().IntVar(&o.months, "months", 12, "Number of months")

	analytics := &cobra.Command{
		Use:   "analytics",
		Short: "Expense breakdown by category",
		RunE:  o.runAnalytics,
	}
	analytics.Flags().StringVar(&o.start, "start", "", "First month as YYYY-MM (default current month)")
	analytics.Flags().IntVar(&o.months, "months", 12, "Number of months")
	analytics.Flags().StringVar(&o.category, "category", core.CategoryAll, "Category to include")
	analytics.Flags().StringVar(&o.essential, "essential", string(core.EssentialAll), "all, essential or non-essential")

	income := &cobra.Command{
		Use:   "income",
		Short: "Income by source for a month, or the series of a year",
		RunE:  o.runIncome,
	}
	income.Flags().StringVar(&o.month, "month", "", "Month as YYYY-MM (default current month)")
	income.Flags().IntVar(&o.year, "year", 0, "Print the 12-month series of this year instead")

	root.AddCommand(summary, forecast, analytics, income)
	return root
}

// openLedger builds a service over the store chosen by the flags: --db
// opens sqlite, --seed alone loads a memory store, neither uses the
// environment configuration.
func (o *reportOptions) openLedger(ctx context.Context, errOut io.Writer) (*services.LedgerService, func(), error) {
	var cfg backend.Config
	switch {
	case o.db != "":
		cfg = backend.Config{Type: backend.SQLiteBackend, SQLiteDBPath: o.db, SeedFile: o.seed}
	case o.seed != "":
		cfg = backend.Config{Type: backend.MemoryBackend, SeedFile: o.seed}
	default:
		var err error
		if cfg, err = backend.FromAppConfig(config.Load()); err != nil {
			return nil, nil, err
		}
	}

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
	res, err := backend.NewFactory(logger).CreateBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := services.NewLedgerService(res.Store, services.Options{
		Metrics: services.NewMetrics(prometheus.NewRegistry()),
		Now:     o.now,
	})
	return svc, func() { _ = svc.Close() }, nil
}

func (o *reportOptions) monthOrCurrent(s string) (core.MonthKey, error) {
	if s == "" {
		return core.MonthKeyOfTime(o.now()), nil
	}
	return core.ParseMonthKey(s)
}

func (o *reportOptions) window() (core.MonthKey, int, error) {
	start, err := o.monthOrCurrent(o.start)
	if err != nil {
		return "", 0, err
	}
	if o.months < 1 || o.months > 120 {
		return "", 0, fmt.Errorf("months must be between 1 and 120, got %d", o.months)
	}
	return start, o.months, nil
}

func (o *reportOptions) runSummary(cmd *cobra.Command, _ []string) error {
	month, err := o.monthOrCurrent(o.month)
	if err != nil {
		return err
	}
	svc, closeFn, err := o.openLedger(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()

	r, err := svc.MonthReport(cmd.Context(), month)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, RenderTitle("MONTH SUMMARY  "+month.String()))
	fmt.Fprint(out, RenderTable(Table{
		Headers: []string{"", "Amount"},
		Rows: [][]string{
			{"Income", FormatMoney(r.Summary.TotalIncome)},
			{"Expenses", FormatMoney(r.Summary.TotalExpenses)},
			{"Balance", FormatMoney(r.Summary.Balance)},
			{separator},
			{"Paid", FormatMoney(r.CashFlow.Paid)},
			{"Expected", FormatMoney(r.CashFlow.Expected)},
			{"Overdue (all months)", FormatMoney(r.CashFlow.Overdue)},
			{"Expected income", FormatMoney(r.CashFlow.ExpectedIncome)},
			{"Cash-flow balance", FormatMoney(r.CashFlow.Balance)},
		},
	}))
	if r.Summary.Balance.Cents < 0 {
		fmt.Fprintln(out, RenderWarning("  Expenses exceed income this month."))
	}
	return nil
}

func (o *reportOptions) runForecast(cmd *cobra.Command, _ []string) error {
	start, count, err := o.window()
	if err != nil {
		return err
	}
	svc, closeFn, err := o.openLedger(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()

	f, err := svc.Forecast(cmd.Context(), start, count)
	if err != nil {
		return err
	}

	headers := []string{"Expense"}
	for _, m := range f.Grid.Months {
		headers = append(headers, m.String())
	}
	var rows [][]string
	for _, e := range f.Expenses {
		row := []string{e.Name}
		for _, m := range f.Grid.Months {
			if a, ok := f.Grid.Amount(m, e.ID); ok {
				row = append(row, FormatMoney(a))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	totals := []string{"Total"}
	for _, t := range f.Totals {
		totals = append(totals, FormatMoney(t))
	}
	rows = append(rows, []string{separator}, totals)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, RenderTitle(fmt.Sprintf("FORECAST  %s +%d", start, count)))
	fmt.Fprint(out, RenderTable(Table{Headers: headers, Rows: rows}))
	return nil
}

func (o *reportOptions) runAnalytics(cmd *cobra.Command, _ []string) error {
	start, count, err := o.window()
	if err != nil {
		return err
	}
	essential, ok := core.ParseEssentialFilter(o.essential)
	if !ok {
		return fmt.Errorf("invalid --essential %q: must be all, essential or non-essential", o.essential)
	}
	svc, closeFn, err := o.openLedger(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()

	a, err := svc.Analytics(cmd.Context(), start, count, core.AnalyticsFilter{Category: o.category, Essential: essential})
	if err != nil {
		return err
	}

	var rows [][]string
	for _, name := range a.SortedCategories() {
		c := a.CategoryBreakdown[name]
		rows = append(rows, []string{name, FormatMoney(c.Total), strconv.Itoa(c.Count), FormatAverage(c.MonthlyAverage)})
	}
	rows = append(rows, []string{separator}, []string{"Total", FormatMoney(a.TotalExpenses), "", ""})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, RenderTitle(fmt.Sprintf("EXPENSE ANALYTICS  %s +%d", start, count)))
	fmt.Fprint(out, RenderTable(Table{
		Headers: []string{"Category", "Total", "Charges", "Monthly avg"},
		Rows:    rows,
	}))
	return nil
}

func (o *reportOptions) runIncome(cmd *cobra.Command, _ []string) error {
	if o.year != 0 {
		return o.runYearlyIncome(cmd)
	}
	month, err := o.monthOrCurrent(o.month)
	if err != nil {
		return err
	}
	svc, closeFn, err := o.openLedger(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()

	r, err := svc.MonthReport(cmd.Context(), month)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, RenderTitle("INCOME  "+month.String()))
	fmt.Fprint(out, RenderTable(Table{
		Headers: []string{"Source", "Amount"},
		Rows: [][]string{
			{"Gigs", FormatMoney(r.Income.Gigs)},
			{"Packages", FormatMoney(r.Income.Packages)},
			{separator},
			{"Total", FormatMoney(r.Income.Total)},
		},
	}))
	return nil
}

func (o *reportOptions) runYearlyIncome(cmd *cobra.Command) error {
	if o.year < 1000 || o.year > 9999 {
		return fmt.Errorf("invalid --year %d", o.year)
	}
	svc, closeFn, err := o.openLedger(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()

	r, err := svc.YearlyIncome(cmd.Context(), o.year)
	if err != nil {
		return err
	}

	var series [][]string
	for _, p := range r.Months {
		series = append(series, []string{p.Month.String(), FormatMoney(p.Paid), FormatMoney(p.Expected), strconv.Itoa(p.EventCount)})
	}
	var sources [][]string
	for _, s := range r.Sources {
		sources = append(sources, []string{s.Source, FormatMoney(s.Amount)})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, RenderTitle(fmt.Sprintf("INCOME  %d", o.year)))
	fmt.Fprint(out, RenderTable(Table{Headers: []string{"Month", "Paid", "Expected", "Events"}, Rows: series}))
	if len(sources) > 0 {
		fmt.Fprint(out, RenderTable(Table{Title: "Paid by source", Headers: []string{"Source", "Amount"}, Rows: sources}))
	}
	return nil
}
