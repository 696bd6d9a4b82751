package worker

import (
	"context"
	"fmt"
	"log/slog"

	"gigledger/internal/amqp"
	"gigledger/internal/core"
	"gigledger/internal/services"
)

// MonthReporter drops cached month reports and recomputes them.
type MonthReporter interface {
	InvalidateMonth(month core.MonthKey) int
	InvalidateAll()
	MonthReport(ctx context.Context, month core.MonthKey) (services.MonthReport, error)
}

// ExportScheduler schedules a forecast export.
type ExportScheduler interface {
	MarkDirty()
}

// LedgerWorker reacts to ledger change messages published by the API.
type LedgerWorker struct {
	reports  MonthReporter
	exporter ExportScheduler
}

// NewLedgerWorker creates a worker. exporter may be nil when export is disabled.
func NewLedgerWorker(reports MonthReporter, exporter ExportScheduler) *LedgerWorker {
	return &LedgerWorker{reports: reports, exporter: exporter}
}

// HandleLedgerChange invalidates the reports the change can affect,
// recomputes the month named by the message and schedules an export. An
// override only moves one month; any other record can move income or the
// overdue backlog, so every report goes. A failed recompute is returned so
// the message is redelivered.
func (w *LedgerWorker) HandleLedgerChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	if msg == nil || !msg.Kind.Valid() {
		return fmt.Errorf("handle ledger change: %w", amqp.ErrUnknownKind)
	}

	slog.InfoContext(ctx, "Processing ledger change",
		"kind", msg.Kind,
		"id", msg.ID,
		"month", msg.Month,
		"deleted", msg.Deleted)

	if w.exporter != nil {
		w.exporter.MarkDirty()
	}
	if w.reports == nil {
		return nil
	}

	month, err := core.ParseMonthKey(msg.Month)
	if msg.Kind == amqp.KindOverride && err == nil {
		n := w.reports.InvalidateMonth(month)
		slog.DebugContext(ctx, "Month reports invalidated", "month", month, "count", n)
	} else {
		w.reports.InvalidateAll()
	}
	if err != nil {
		return nil
	}

	r, err := w.reports.MonthReport(ctx, month)
	if err != nil {
		return fmt.Errorf("recompute month %s: %w", month, err)
	}
	slog.InfoContext(ctx, "Month report recomputed",
		"month", month,
		"income_cents", r.Summary.TotalIncome.Cents,
		"expenses_cents", r.Summary.TotalExpenses.Cents,
		"balance_cents", r.Summary.Balance.Cents,
		"overdue_cents", r.CashFlow.Overdue.Cents)
	return nil
}
