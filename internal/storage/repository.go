package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gigledger/internal/core"
	"gigledger/internal/ledger"

	_ "modernc.org/sqlite"
)

var _ ledger.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Snapshot loads the four collections concurrently.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var (
		expenses  []RecurringExpenseRow
		instances []InstanceRow
		gigs      []GigRow
		packages  []PackageRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = r.queries.ListRecurringExpenses(gctx)
		if err != nil {
			return fmt.Errorf("list recurring expenses: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		instances, err = r.queries.ListInstances(gctx)
		if err != nil {
			return fmt.Errorf("list monthly expense instances: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		gigs, err = r.queries.ListGigs(gctx)
		if err != nil {
			return fmt.Errorf("list gigs: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		packages, err = r.queries.ListPackages(gctx)
		if err != nil {
			return fmt.Errorf("list packages: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Snapshot{}, err
	}

	snap := core.Snapshot{
		Expenses:  make([]core.RecurringExpense, 0, len(expenses)),
		Instances: make([]core.MonthlyExpenseInstance, 0, len(instances)),
		Gigs:      make([]core.Gig, 0, len(gigs)),
		Packages:  make([]core.Package, 0, len(packages)),
	}
	for _, row := range expenses {
		e, err := expenseFromRow(row)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("decode recurring expense %s: %w", row.ID, err)
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	for _, row := range instances {
		month, err := core.ParseMonthKey(row.MonthKey)
		if err != nil {
			slog.WarnContext(ctx, "Skipping override with malformed month", "id", row.ID, "month", row.MonthKey)
			continue
		}
		snap.Instances = append(snap.Instances, core.MonthlyExpenseInstance{
			ID:                       row.ID,
			SourceRecurringExpenseID: row.SourceRecurringExpenseID,
			MonthKey:                 month,
			Amount:                   core.Money{Cents: row.AmountCents},
			IsOneTime:                row.IsOneTime,
			Notes:                    row.Notes,
		})
	}
	for _, row := range gigs {
		gig, err := gigFromRow(row)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("decode gig %s: %w", row.ID, err)
		}
		snap.Gigs = append(snap.Gigs, gig)
	}
	for _, row := range packages {
		p, err := packageFromRow(row)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("decode package %s: %w", row.ID, err)
		}
		snap.Packages = append(snap.Packages, p)
	}
	return snap, nil
}

func (r *SQLiteRepository) SaveExpense(ctx context.Context, e core.RecurringExpense) (core.RecurringExpense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := e.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	err := r.queries.UpsertRecurringExpense(ctx, RecurringExpenseRow{
		ID:                 e.ID,
		Name:               e.Name,
		MonthlyAmountCents: e.MonthlyAmount.Cents,
		Category:           e.Category,
		StartDate:          e.StartDate.String(),
		EndDate:            e.EndDate.String(),
		IsActive:           e.IsActive,
		IsEssential:        e.IsEssential,
		Notes:              e.Notes,
	})
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("save recurring expense: %w", err)
	}
	slog.InfoContext(ctx, "Recurring expense saved to SQLite", "id", e.ID, "amount_cents", e.MonthlyAmount.Cents)
	return e, nil
}

// DeleteExpense removes the expense only. Its overrides are separate
// records and stay; the engine ignores them once the expense is gone.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	n, err := r.queries.DeleteRecurringExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrExpenseNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) UpsertInstance(ctx context.Context, i core.MonthlyExpenseInstance) (core.MonthlyExpenseInstance, error) {
	if err := i.Validate(); err != nil {
		return core.MonthlyExpenseInstance{}, err
	}
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	id, err := r.queries.UpsertInstance(ctx, InstanceRow{
		ID:                       i.ID,
		SourceRecurringExpenseID: i.SourceRecurringExpenseID,
		MonthKey:                 i.MonthKey.String(),
		AmountCents:              i.Amount.Cents,
		IsOneTime:                true,
		Notes:                    i.Notes,
	})
	if err != nil {
		return core.MonthlyExpenseInstance{}, fmt.Errorf("upsert monthly expense instance: %w", err)
	}
	i.ID = id
	i.IsOneTime = true
	return i, nil
}

func (r *SQLiteRepository) DeleteInstance(ctx context.Context, expenseID string, month core.MonthKey) error {
	if err := r.queries.DeleteInstance(ctx, expenseID, month.String()); err != nil {
		return fmt.Errorf("delete monthly expense instance: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveGig(ctx context.Context, g core.Gig) (core.Gig, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = r.now().UTC()
	}
	if err := g.Validate(); err != nil {
		return core.Gig{}, err
	}
	err := r.queries.UpsertGig(ctx, GigRow{
		ID:                 g.ID,
		Name:               g.Name,
		SupplierName:       g.SupplierName,
		PaymentAmountCents: g.PaymentAmount.Cents,
		EventDate:          g.EventDate.String(),
		PaymentDueDate:     g.PaymentDueDate.String(),
		Status:             string(g.Status),
		PackageID:          g.PackageID,
		UsageType:          string(g.UsageType),
		DurationHours:      g.Duration,
		InvoiceNumber:      g.InvoiceNumber,
		Notes:              g.Notes,
		CreatedAt:          g.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return core.Gig{}, fmt.Errorf("save gig: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) DeleteGig(ctx context.Context, id string) error {
	n, err := r.queries.DeleteGig(ctx, id)
	if err != nil {
		return fmt.Errorf("delete gig: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrGigNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) SavePackage(ctx context.Context, p core.Package) (core.Package, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return core.Package{}, err
	}
	err := r.queries.UpsertPackage(ctx, PackageRow{
		ID:              p.ID,
		Name:            p.Name,
		ClientName:      p.ClientName,
		TotalPriceCents: p.TotalPrice.Cents,
		BillingDate:     p.BillingDate.String(),
		Status:          string(p.Status),
		MaxWorkshops:    int64(p.MaxWorkshops),
		MaxHours:        p.MaxHours,
		Notes:           p.Notes,
	})
	if err != nil {
		return core.Package{}, fmt.Errorf("save package: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) DeletePackage(ctx context.Context, id string) error {
	n, err := r.queries.DeletePackage(ctx, id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrPackageNotFound, id)
	}
	return nil
}

// Import writes every record of s, keeping existing IDs. Used to seed a fresh database.
func (r *SQLiteRepository) Import(ctx context.Context, s core.Snapshot) error {
	for _, e := range s.Expenses {
		if _, err := r.SaveExpense(ctx, e); err != nil {
			return err
		}
	}
	for _, i := range s.Instances {
		if _, err := r.UpsertInstance(ctx, i); err != nil {
			return err
		}
	}
	for _, p := range s.Packages {
		if _, err := r.SavePackage(ctx, p); err != nil {
			return err
		}
	}
	for _, g := range s.Gigs {
		if _, err := r.SaveGig(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

func expenseFromRow(row RecurringExpenseRow) (core.RecurringExpense, error) {
	start, err := core.ParseDate(row.StartDate)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	end, err := core.ParseOptionalDate(row.EndDate)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	return core.RecurringExpense{
		ID:            row.ID,
		Name:          row.Name,
		MonthlyAmount: core.Money{Cents: row.MonthlyAmountCents},
		Category:      row.Category,
		StartDate:     start,
		EndDate:       end,
		IsActive:      row.IsActive,
		IsEssential:   row.IsEssential,
		Notes:         row.Notes,
	}, nil
}

func gigFromRow(row GigRow) (core.Gig, error) {
	event, err := core.ParseDate(row.EventDate)
	if err != nil {
		return core.Gig{}, err
	}
	due, err := core.ParseDate(row.PaymentDueDate)
	if err != nil {
		return core.Gig{}, err
	}
	created, _ := time.Parse(time.RFC3339, row.CreatedAt)
	return core.Gig{
		ID:             row.ID,
		Name:           row.Name,
		SupplierName:   row.SupplierName,
		PaymentAmount:  core.Money{Cents: row.PaymentAmountCents},
		EventDate:      event,
		PaymentDueDate: due,
		Status:         core.Status(row.Status),
		PackageID:      row.PackageID,
		UsageType:      core.UsageType(row.UsageType),
		Duration:       row.DurationHours,
		InvoiceNumber:  row.InvoiceNumber,
		Notes:          row.Notes,
		CreatedAt:      created,
	}, nil
}

func packageFromRow(row PackageRow) (core.Package, error) {
	billing, err := core.ParseOptionalDate(row.BillingDate)
	if err != nil {
		return core.Package{}, err
	}
	return core.Package{
		ID:           row.ID,
		Name:         row.Name,
		ClientName:   row.ClientName,
		TotalPrice:   core.Money{Cents: row.TotalPriceCents},
		BillingDate:  billing,
		Status:       core.Status(row.Status),
		MaxWorkshops: int(row.MaxWorkshops),
		MaxHours:     row.MaxHours,
		Notes:        row.Notes,
	}, nil
}
