package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"gigledger/internal/amqp"
	"gigledger/internal/cache"
	"gigledger/internal/cli"
	"gigledger/internal/config"
	"gigledger/internal/log"
	"gigledger/internal/services"
	"gigledger/internal/sheets"
	gsheet "gigledger/internal/sheets/google"
	sheetsmem "gigledger/internal/sheets/memory"
	"gigledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting ledger-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the ledger worker")
		os.Exit(1)
	}
	if cfg.DataBackend == config.BackendMemory {
		logger.Warn("Memory backend does not share data with the API; forecasts will only reflect the seed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cli.InitBackend(ctx, logger, cfg)
	if store.Cleanup != nil {
		defer store.Cleanup()
	}

	ledgerSvc := services.NewLedgerService(store.Store, services.Options{
		Metrics:   services.NewMetrics(prometheus.NewRegistry()),
		CacheSize: cfg.SummaryCacheSize,
		CacheTTL:  cfg.SummaryCacheTTL,
	})

	var writer sheets.ForecastWriter
	if cfg.ExportEnabled() {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			ForecastSheet:   cfg.GoogleForecastSheet,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleForecastSheet)
	} else {
		writer = sheetsmem.New()
		logger.Info("Google Sheets export disabled - forecast kept in memory")
	}

	exportCfg := services.DefaultExportProcessorConfig()
	exportCfg.PollInterval = cfg.ExportInterval
	exportCfg.ForecastMonths = cfg.ForecastMonths
	exporter := services.NewExportProcessor(ledgerSvc, writer, exportCfg)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ledgerWorker := worker.NewLedgerWorker(ledgerSvc, exporter)

	if err := exporter.Start(ctx); err != nil {
		logger.Error("Failed to start export processor", log.FieldError, err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeLedgerChanges(gctx, ledgerWorker.HandleLedgerChange)
	})
	if c := ledgerSvc.Cache(); c != nil {
		g.Go(func() error {
			cache.NewJanitor(c).Run(gctx, cfg.SummaryCacheTTL)
			return nil
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
	}

	logger.Info("Shutting down worker...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := exporter.Stop(shutdownCtx); err != nil {
		logger.Warn("Export processor did not stop cleanly", log.FieldError, err)
	}
	logger.Info("Worker shutdown complete")
}
