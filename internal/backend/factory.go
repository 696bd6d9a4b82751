package backend

import (
	"context"
	"fmt"
	"log/slog"

	"gigledger/internal/core"
	"gigledger/internal/ledger"
	"gigledger/internal/ledger/memory"
	"gigledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	if config.SeedFile != "" {
		imported, err := seedIfEmpty(ctx, repo, config.SeedFile)
		if err != nil {
			repo.Close()
			return nil, err
		}
		if imported {
			f.logger.InfoContext(ctx, "Imported seed into empty database", "seed_file", config.SeedFile)
		}
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

// seedIfEmpty imports the seed only when the database holds no records, so
// restarts never duplicate or overwrite user edits.
func seedIfEmpty(ctx context.Context, repo *storage.SQLiteRepository, path string) (bool, error) {
	existing, err := repo.Snapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("read database before seeding: %w", err)
	}
	if !isEmpty(existing) {
		return false, nil
	}
	seed, err := ledger.LoadSeed(path)
	if err != nil {
		return false, fmt.Errorf("load seed: %w", err)
	}
	if err := repo.Import(ctx, seed); err != nil {
		return false, fmt.Errorf("import seed: %w", err)
	}
	return true, nil
}

func isEmpty(s core.Snapshot) bool {
	return len(s.Expenses) == 0 && len(s.Instances) == 0 && len(s.Gigs) == 0 && len(s.Packages) == 0
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	if config.SeedFile == "" {
		f.logger.Info("Initialized memory backend")
		return &BackendResult{Store: memory.New()}, nil
	}

	store, err := memory.NewFromFile(config.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}
