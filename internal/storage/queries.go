package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Row types mirror the tables one to one.
type (
	RecurringExpenseRow struct {
		ID                 string
		Name               string
		MonthlyAmountCents int64
		Category           string
		StartDate          string
		EndDate            string
		IsActive           bool
		IsEssential        bool
		Notes              string
	}

	InstanceRow struct {
		ID                       string
		SourceRecurringExpenseID string
		MonthKey                 string
		AmountCents              int64
		IsOneTime                bool
		Notes                    string
	}

	GigRow struct {
		ID                 string
		Name               string
		SupplierName       string
		PaymentAmountCents int64
		EventDate          string
		PaymentDueDate     string
		Status             string
		PackageID          string
		UsageType          string
		DurationHours      float64
		InvoiceNumber      string
		Notes              string
		CreatedAt          string
	}

	PackageRow struct {
		ID              string
		Name            string
		ClientName      string
		TotalPriceCents int64
		BillingDate     string
		Status          string
		MaxWorkshops    int64
		MaxHours        float64
		Notes           string
	}
)

const listRecurringExpenses = `
SELECT id, name, monthly_amount_cents, category, start_date, end_date, is_active, is_essential, notes
FROM recurring_expenses
ORDER BY rowid`

func (q *Queries) ListRecurringExpenses(ctx context.Context) ([]RecurringExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecurringExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RecurringExpenseRow
	for rows.Next() {
		var i RecurringExpenseRow
		if err := rows.Scan(&i.ID, &i.Name, &i.MonthlyAmountCents, &i.Category, &i.StartDate, &i.EndDate, &i.IsActive, &i.IsEssential, &i.Notes); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertRecurringExpense = `
INSERT INTO recurring_expenses (id, name, monthly_amount_cents, category, start_date, end_date, is_active, is_essential, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    monthly_amount_cents = excluded.monthly_amount_cents,
    category = excluded.category,
    start_date = excluded.start_date,
    end_date = excluded.end_date,
    is_active = excluded.is_active,
    is_essential = excluded.is_essential,
    notes = excluded.notes`

func (q *Queries) UpsertRecurringExpense(ctx context.Context, arg RecurringExpenseRow) error {
	_, err := q.db.ExecContext(ctx, upsertRecurringExpense,
		arg.ID, arg.Name, arg.MonthlyAmountCents, arg.Category, arg.StartDate, arg.EndDate, arg.IsActive, arg.IsEssential, arg.Notes)
	return err
}

const deleteRecurringExpense = `DELETE FROM recurring_expenses WHERE id = ?`

func (q *Queries) DeleteRecurringExpense(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteRecurringExpense, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listInstances = `
SELECT id, source_recurring_expense_id, month_key, amount_cents, is_one_time, notes
FROM monthly_expense_instances
ORDER BY rowid`

func (q *Queries) ListInstances(ctx context.Context) ([]InstanceRow, error) {
	rows, err := q.db.QueryContext(ctx, listInstances)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InstanceRow
	for rows.Next() {
		var i InstanceRow
		if err := rows.Scan(&i.ID, &i.SourceRecurringExpenseID, &i.MonthKey, &i.AmountCents, &i.IsOneTime, &i.Notes); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertInstance = `
INSERT INTO monthly_expense_instances (id, source_recurring_expense_id, month_key, amount_cents, is_one_time, notes)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (source_recurring_expense_id, month_key) DO UPDATE SET
    amount_cents = excluded.amount_cents,
    is_one_time = excluded.is_one_time,
    notes = excluded.notes
RETURNING id`

// UpsertInstance writes the override slot and returns the id kept for it.
func (q *Queries) UpsertInstance(ctx context.Context, arg InstanceRow) (string, error) {
	var id string
	err := q.db.QueryRowContext(ctx, upsertInstance,
		arg.ID, arg.SourceRecurringExpenseID, arg.MonthKey, arg.AmountCents, arg.IsOneTime, arg.Notes).Scan(&id)
	return id, err
}

const deleteInstance = `
DELETE FROM monthly_expense_instances
WHERE source_recurring_expense_id = ? AND month_key = ?`

func (q *Queries) DeleteInstance(ctx context.Context, expenseID, monthKey string) error {
	_, err := q.db.ExecContext(ctx, deleteInstance, expenseID, monthKey)
	return err
}

const listGigs = `
SELECT id, name, supplier_name, payment_amount_cents, event_date, payment_due_date, status,
       package_id, usage_type, duration_hours, invoice_number, notes, created_at
FROM gigs
ORDER BY event_date, rowid`

func (q *Queries) ListGigs(ctx context.Context) ([]GigRow, error) {
	rows, err := q.db.QueryContext(ctx, listGigs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GigRow
	for rows.Next() {
		var i GigRow
		if err := rows.Scan(&i.ID, &i.Name, &i.SupplierName, &i.PaymentAmountCents, &i.EventDate, &i.PaymentDueDate, &i.Status,
			&i.PackageID, &i.UsageType, &i.DurationHours, &i.InvoiceNumber, &i.Notes, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertGig = `
INSERT INTO gigs (id, name, supplier_name, payment_amount_cents, event_date, payment_due_date, status,
                  package_id, usage_type, duration_hours, invoice_number, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    supplier_name = excluded.supplier_name,
    payment_amount_cents = excluded.payment_amount_cents,
    event_date = excluded.event_date,
    payment_due_date = excluded.payment_due_date,
    status = excluded.status,
    package_id = excluded.package_id,
    usage_type = excluded.usage_type,
    duration_hours = excluded.duration_hours,
    invoice_number = excluded.invoice_number,
    notes = excluded.notes`

func (q *Queries) UpsertGig(ctx context.Context, arg GigRow) error {
	_, err := q.db.ExecContext(ctx, upsertGig,
		arg.ID, arg.Name, arg.SupplierName, arg.PaymentAmountCents, arg.EventDate, arg.PaymentDueDate, arg.Status,
		arg.PackageID, arg.UsageType, arg.DurationHours, arg.InvoiceNumber, arg.Notes, arg.CreatedAt)
	return err
}

const deleteGig = `DELETE FROM gigs WHERE id = ?`

func (q *Queries) DeleteGig(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteGig, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listPackages = `
SELECT id, name, client_name, total_price_cents, billing_date, status, max_workshops, max_hours, notes
FROM packages
ORDER BY rowid`

func (q *Queries) ListPackages(ctx context.Context) ([]PackageRow, error) {
	rows, err := q.db.QueryContext(ctx, listPackages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PackageRow
	for rows.Next() {
		var i PackageRow
		if err := rows.Scan(&i.ID, &i.Name, &i.ClientName, &i.TotalPriceCents, &i.BillingDate, &i.Status, &i.MaxWorkshops, &i.MaxHours, &i.Notes); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertPackage = `
INSERT INTO packages (id, name, client_name, total_price_cents, billing_date, status, max_workshops, max_hours, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    client_name = excluded.client_name,
    total_price_cents = excluded.total_price_cents,
    billing_date = excluded.billing_date,
    status = excluded.status,
    max_workshops = excluded.max_workshops,
    max_hours = excluded.max_hours,
    notes = excluded.notes`

func (q *Queries) UpsertPackage(ctx context.Context, arg PackageRow) error {
	_, err := q.db.ExecContext(ctx, upsertPackage,
		arg.ID, arg.Name, arg.ClientName, arg.TotalPriceCents, arg.BillingDate, arg.Status, arg.MaxWorkshops, arg.MaxHours, arg.Notes)
	return err
}

const deletePackage = `DELETE FROM packages WHERE id = ?`

func (q *Queries) DeletePackage(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePackage, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
