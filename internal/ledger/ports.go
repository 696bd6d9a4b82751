package ledger

import (
	"context"

	"gigledger/internal/core"
)

// Ports for the persistence collaborator.
type (
	// SnapshotReader returns one consistent read of every collection.
	SnapshotReader interface {
		Snapshot(ctx context.Context) (core.Snapshot, error)
	}

	// ExpenseStore saves and deletes recurring expenses. Save assigns an ID
	// when the record has none and replaces an existing record with the same ID.
	ExpenseStore interface {
		SaveExpense(ctx context.Context, e core.RecurringExpense) (core.RecurringExpense, error)
		DeleteExpense(ctx context.Context, id string) error
	}

	// InstanceStore keeps at most one override per (expense, month) slot.
	InstanceStore interface {
		UpsertInstance(ctx context.Context, i core.MonthlyExpenseInstance) (core.MonthlyExpenseInstance, error)
		// DeleteInstance clears the slot; clearing an empty slot is not an error.
		DeleteInstance(ctx context.Context, expenseID string, month core.MonthKey) error
	}

	GigStore interface {
		SaveGig(ctx context.Context, g core.Gig) (core.Gig, error)
		DeleteGig(ctx context.Context, id string) error
	}

	PackageStore interface {
		SavePackage(ctx context.Context, p core.Package) (core.Package, error)
		DeletePackage(ctx context.Context, id string) error
	}

	// Store is the full persistence port used by the service.
	Store interface {
		SnapshotReader
		ExpenseStore
		InstanceStore
		GigStore
		PackageStore
		Close() error
	}
)
