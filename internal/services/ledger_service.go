package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gigledger/internal/amqp"
	"gigledger/internal/cache"
	"gigledger/internal/core"
	"gigledger/internal/ledger"
)

// Publisher announces ledger changes to other processes.
type Publisher interface {
	PublishLedgerChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error
}

// Options configures a LedgerService. Zero values pick defaults.
type Options struct {
	Publisher Publisher
	Metrics   *Metrics
	CacheSize int
	CacheTTL  time.Duration
	Now       func() time.Time
}

// MonthReport is everything the engine says about one month.
type MonthReport struct {
	Summary  core.MonthSummary
	CashFlow core.CashFlowSummary
	Income   core.IncomeBreakdown
}

// Forecast is the expense grid over a window plus the expenses it covers.
type Forecast struct {
	Grid     core.ExpenseGrid
	Expenses []core.RecurringExpense
	Totals   []core.Money
}

// YearlyReport is the income series of one year.
type YearlyReport struct {
	Year    int
	Months  []core.MonthIncomePoint
	Sources []core.SourceAmount
}

// PackageReport pairs a package with its quota usage.
type PackageReport struct {
	Package    core.Package
	Usage      core.PackageUsage
	LinkedGigs int
}

// reportKey includes today's date because cash flow depends on it.
type reportKey struct {
	month core.MonthKey
	today string
}

// LedgerService runs the engine over store snapshots. It reads the clock
// once per operation so every figure of a result agrees on "today".
type LedgerService struct {
	store     ledger.Store
	publisher Publisher
	reports   cache.Cache[reportKey, MonthReport]
	metrics   *Metrics
	now       func() time.Time

	// generation counts invalidations. A report is cached only if no
	// invalidation happened since its snapshot was read.
	cacheMu    sync.Mutex
	generation uint64
}

func NewLedgerService(store ledger.Store, opts Options) *LedgerService {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &LedgerService{
		store:     store,
		publisher: opts.Publisher,
		reports:   cache.NewLRUCache[reportKey, MonthReport](opts.CacheSize, opts.CacheTTL),
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
}

// Cache exposes the report cache so a janitor can sweep it.
func (s *LedgerService) Cache() cache.Cleaner {
	if c, ok := s.reports.(cache.Cleaner); ok {
		return c
	}
	return nil
}

func (s *LedgerService) load(ctx context.Context, op string) (core.Snapshot, func(), error) {
	start := time.Now()
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return core.Snapshot{}, nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, func() {
		s.metrics.EngineDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}, nil
}

// Ready reports whether the store can serve a snapshot. Stores with a
// database connection are pinged instead.
func (s *LedgerService) Ready(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := s.store.Snapshot(ctx)
	return err
}

// MonthReport returns the summary, cash flow and income of month.
func (s *LedgerService) MonthReport(ctx context.Context, month core.MonthKey) (MonthReport, error) {
	if _, err := core.ParseMonthKey(string(month)); err != nil {
		return MonthReport{}, err
	}
	now := s.now()
	key := reportKey{month: month, today: core.DateOf(now).String()}
	if r, ok := s.reports.Get(key); ok {
		s.metrics.CacheRequests.WithLabelValues("hit").Inc()
		return r, nil
	}
	s.metrics.CacheRequests.WithLabelValues("miss").Inc()

	gen := s.cacheGeneration()
	snap, done, err := s.load(ctx, "month_report")
	if err != nil {
		return MonthReport{}, err
	}
	defer done()

	r := MonthReport{
		Summary:  core.Summarize(month, snap),
		CashFlow: core.SummarizeCashFlow(month, snap, now),
		Income:   core.ReconcileIncome(snap.Gigs, snap.Packages, month),
	}
	s.storeReport(key, r, gen)
	return r, nil
}

func (s *LedgerService) cacheGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// storeReport caches r unless the cache was invalidated after gen was read.
func (s *LedgerService) storeReport(key reportKey, r MonthReport, gen uint64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		slog.Debug("Skipping stale month report", "month", key.month)
		return
	}
	s.reports.Set(key, r)
}

// Forecast builds the expense grid for count months from start.
func (s *LedgerService) Forecast(ctx context.Context, start core.MonthKey, count int) (Forecast, error) {
	if _, err := core.ParseMonthKey(string(start)); err != nil {
		return Forecast{}, err
	}
	snap, done, err := s.load(ctx, "forecast")
	if err != nil {
		return Forecast{}, err
	}
	defer done()

	grid := core.BuildGrid(snap.Expenses, snap.Instances, start, count)
	var rows []core.RecurringExpense
	for _, e := range snap.Expenses {
		for _, m := range grid.Months {
			if grid.Has(m, e.ID) {
				rows = append(rows, e)
				break
			}
		}
	}
	return Forecast{Grid: grid, Expenses: rows, Totals: grid.Totals()}, nil
}

// Analytics aggregates expenses over the window.
func (s *LedgerService) Analytics(ctx context.Context, start core.MonthKey, count int, filter core.AnalyticsFilter) (core.ExpenseAnalytics, error) {
	if _, err := core.ParseMonthKey(string(start)); err != nil {
		return core.ExpenseAnalytics{}, err
	}
	snap, done, err := s.load(ctx, "analytics")
	if err != nil {
		return core.ExpenseAnalytics{}, err
	}
	defer done()
	return core.AggregateExpenses(snap.Expenses, snap.Instances, start, count, filter), nil
}

// Categories lists the distinct expense categories.
func (s *LedgerService) Categories(ctx context.Context) ([]string, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return core.Categories(snap.Expenses), nil
}

// YearlyIncome returns the 12-month series and the paid income by source.
func (s *LedgerService) YearlyIncome(ctx context.Context, year int) (YearlyReport, error) {
	snap, done, err := s.load(ctx, "yearly_income")
	if err != nil {
		return YearlyReport{}, err
	}
	defer done()
	return YearlyReport{
		Year:    year,
		Months:  core.YearlyIncome(snap.Gigs, snap.Packages, year),
		Sources: core.IncomeBySource(snap.Gigs, snap.Packages, year),
	}, nil
}

// PackageUsage reports quota consumption for every package.
func (s *LedgerService) PackageUsage(ctx context.Context) ([]PackageReport, error) {
	snap, done, err := s.load(ctx, "package_usage")
	if err != nil {
		return nil, err
	}
	defer done()

	out := make([]PackageReport, 0, len(snap.Packages))
	for _, p := range snap.Packages {
		out = append(out, PackageReport{
			Package:    p,
			Usage:      core.UsageOf(p, snap.Gigs),
			LinkedGigs: len(core.LinkedGigs(snap.Gigs, p.ID)),
		})
	}
	return out, nil
}

// Gigs returns the gigs matching filter as of now.
func (s *LedgerService) Gigs(ctx context.Context, filter core.GigFilter) ([]core.Gig, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return core.FilterGigs(snap.Gigs, filter, s.now()), nil
}

// SetOverride stores or clears the override of (expenseID, month). An amount
// equal to the base is applied as a removal.
func (s *LedgerService) SetOverride(ctx context.Context, expenseID string, month core.MonthKey, amount core.Money, notes string) (core.OverridePlan, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return core.OverridePlan{}, fmt.Errorf("load snapshot: %w", err)
	}
	plan, err := core.PlanOverride(snap.Expenses, expenseID, month, amount, notes)
	if err != nil {
		return core.OverridePlan{}, err
	}

	switch plan.Action {
	case core.OverrideRemove:
		if err := s.store.DeleteInstance(ctx, expenseID, month); err != nil {
			return core.OverridePlan{}, fmt.Errorf("delete override: %w", err)
		}
	default:
		saved, err := s.store.UpsertInstance(ctx, plan.Instance)
		if err != nil {
			return core.OverridePlan{}, fmt.Errorf("save override: %w", err)
		}
		plan.Instance = saved
	}

	s.metrics.Overrides.WithLabelValues(plan.Action.String()).Inc()
	s.InvalidateMonth(month)
	slog.InfoContext(ctx, "Override applied",
		"expense_id", expenseID,
		"month", month,
		"amount_cents", amount.Cents,
		"action", plan.Action)
	s.publish(ctx, amqp.NewLedgerChangeMessage(amqp.KindOverride, expenseID, month.String(), plan.Action == core.OverrideRemove))
	return plan, nil
}

// ClearOverride removes the override of (expenseID, month), if any.
func (s *LedgerService) ClearOverride(ctx context.Context, expenseID string, month core.MonthKey) error {
	if _, err := core.ParseMonthKey(string(month)); err != nil {
		return err
	}
	if err := s.store.DeleteInstance(ctx, expenseID, month); err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	s.metrics.Overrides.WithLabelValues(core.OverrideRemove.String()).Inc()
	s.InvalidateMonth(month)
	s.publish(ctx, amqp.NewLedgerChangeMessage(amqp.KindOverride, expenseID, month.String(), true))
	return nil
}

func (s *LedgerService) SaveExpense(ctx context.Context, e core.RecurringExpense) (core.RecurringExpense, error) {
	saved, err := s.store.SaveExpense(ctx, e)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("save recurring expense: %w", err)
	}
	s.written(ctx, amqp.KindExpense, saved.ID, core.MonthKeyOf(saved.StartDate), false)
	return saved, nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	s.written(ctx, amqp.KindExpense, id, "", true)
	return nil
}

func (s *LedgerService) SaveGig(ctx context.Context, g core.Gig) (core.Gig, error) {
	saved, err := s.store.SaveGig(ctx, g)
	if err != nil {
		return core.Gig{}, fmt.Errorf("save gig: %w", err)
	}
	s.written(ctx, amqp.KindGig, saved.ID, core.MonthKeyOf(saved.PaymentDueDate), false)
	return saved, nil
}

func (s *LedgerService) DeleteGig(ctx context.Context, id string) error {
	if err := s.store.DeleteGig(ctx, id); err != nil {
		return fmt.Errorf("delete gig: %w", err)
	}
	s.written(ctx, amqp.KindGig, id, "", true)
	return nil
}

func (s *LedgerService) SavePackage(ctx context.Context, p core.Package) (core.Package, error) {
	saved, err := s.store.SavePackage(ctx, p)
	if err != nil {
		return core.Package{}, fmt.Errorf("save package: %w", err)
	}
	s.written(ctx, amqp.KindPackage, saved.ID, core.MonthKeyOf(saved.BillingDate), false)
	return saved, nil
}

func (s *LedgerService) DeletePackage(ctx context.Context, id string) error {
	if err := s.store.DeletePackage(ctx, id); err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	s.written(ctx, amqp.KindPackage, id, "", true)
	return nil
}

// written records a successful write. Record writes can move income into or
// out of any month and change the global overdue figure, so every cached
// report is dropped.
func (s *LedgerService) written(ctx context.Context, kind amqp.ChangeKind, id string, month core.MonthKey, deleted bool) {
	op := "save"
	if deleted {
		op = "delete"
	}
	s.metrics.RecordWrites.WithLabelValues(string(kind), op).Inc()
	s.InvalidateAll()
	slog.InfoContext(ctx, "Ledger record written", "kind", kind, "id", id, "operation", op)
	s.publish(ctx, amqp.NewLedgerChangeMessage(kind, id, month.String(), deleted))
}

// InvalidateMonth drops cached reports of month. Overrides only move
// expenses, so other months stay valid.
func (s *LedgerService) InvalidateMonth(month core.MonthKey) int {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	return s.reports.DeleteFunc(func(k reportKey) bool { return k.month == month })
}

// InvalidateAll drops every cached report.
func (s *LedgerService) InvalidateAll() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	s.reports.Purge()
}

// publish failures are logged, never returned: the write already succeeded.
func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerChangeMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChange(ctx, msg); err != nil {
		s.metrics.ChangePublishes.WithLabelValues("error").Inc()
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"kind", msg.Kind,
			"id", msg.ID,
			"error", err)
		return
	}
	s.metrics.ChangePublishes.WithLabelValues("ok").Inc()
}

// Close closes the store.
func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means a referenced record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, core.ErrExpenseNotFound) ||
		errors.Is(err, core.ErrGigNotFound) ||
		errors.Is(err, core.ErrPackageNotFound) ||
		errors.Is(err, core.ErrInstanceNotFound)
}

// IsInvalidInput reports whether err comes from normalizing or validating input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, core.ErrInvalidMonthKey) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidStatus) ||
		errors.Is(err, core.ErrInvalidDay) ||
		errors.Is(err, core.ErrInvalidMonth) ||
		errors.Is(err, core.ErrInvalidRecord) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrEmptyID)
}
