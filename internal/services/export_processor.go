package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gigledger/internal/core"
	"gigledger/internal/sheets"
)

// ExportProcessorConfig holds configuration for the forecast export processor
type ExportProcessorConfig struct {
	// PollInterval is how often pending exports are flushed (default: 10s)
	PollInterval time.Duration

	// MaxRetries is the number of failed attempts before an export is dropped (default: 3)
	MaxRetries int

	// ForecastMonths is the width of the exported window, starting at the current month (default: 12)
	ForecastMonths int
}

// DefaultExportProcessorConfig returns sensible defaults
func DefaultExportProcessorConfig() ExportProcessorConfig {
	return ExportProcessorConfig{
		PollInterval:   10 * time.Second,
		MaxRetries:     3,
		ForecastMonths: 12,
	}
}

// ForecastSource builds the forecast to export.
type ForecastSource interface {
	Forecast(ctx context.Context, start core.MonthKey, count int) (Forecast, error)
}

// ExportProcessor coalesces ledger changes into periodic forecast exports.
// Any number of MarkDirty calls between two ticks produce a single write.
type ExportProcessor struct {
	source ForecastSource
	writer sheets.ForecastWriter
	config ExportProcessorConfig
	now    func() time.Time

	mu       sync.Mutex
	dirty    bool
	attempts int
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewExportProcessor creates a new export processor. The first tick always exports.
func NewExportProcessor(source ForecastSource, writer sheets.ForecastWriter, config ExportProcessorConfig) *ExportProcessor {
	return &ExportProcessor{
		source: source,
		writer: writer,
		config: config,
		now:    time.Now,
		dirty:  true,
	}
}

// MarkDirty schedules an export on the next tick.
func (p *ExportProcessor) MarkDirty() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
}

// Pending reports whether an export is scheduled.
func (p *ExportProcessor) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Start begins the processing loop. Returns an error if already running.
func (p *ExportProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("export processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Export processor started",
		"poll_interval", p.config.PollInterval,
		"months", p.config.ForecastMonths)

	return nil
}

// Stop gracefully stops the processor and waits for completion. After a
// timed out Stop, calling it again keeps waiting for the same loop.
func (p *ExportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.stopCh = nil
	p.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Export processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Export processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

// IsRunning returns whether the processor is currently running
func (p *ExportProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ExportProcessor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.processPending(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.processPending(ctx)
		}
	}
}

// processPending runs one export if one is scheduled, rescheduling it on
// failure until MaxRetries attempts have failed.
func (p *ExportProcessor) processPending(ctx context.Context) {
	p.mu.Lock()
	if !p.dirty {
		p.mu.Unlock()
		return
	}
	p.dirty = false
	p.mu.Unlock()

	err := p.ExportNow(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		p.attempts = 0
		return
	}

	p.attempts++
	slog.WarnContext(ctx, "Forecast export failed",
		"attempt", p.attempts,
		"error", err)
	if p.attempts >= p.config.MaxRetries {
		slog.ErrorContext(ctx, "Forecast export failed permanently after max retries",
			"attempts", p.attempts)
		p.attempts = 0
		return
	}
	p.dirty = true
}

// ExportNow builds the forecast from the current month and writes it.
func (p *ExportProcessor) ExportNow(ctx context.Context) error {
	start := core.MonthKeyOfTime(p.now())
	f, err := p.source.Forecast(ctx, start, p.config.ForecastMonths)
	if err != nil {
		return fmt.Errorf("build forecast: %w", err)
	}
	if err := p.writer.WriteForecast(ctx, sheets.NewForecast(f.Grid, f.Expenses)); err != nil {
		return fmt.Errorf("write forecast: %w", err)
	}
	slog.InfoContext(ctx, "Forecast exported",
		"start_month", start,
		"months", p.config.ForecastMonths,
		"rows", len(f.Expenses))
	return nil
}
