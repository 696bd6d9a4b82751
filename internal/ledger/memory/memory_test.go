package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gigledger/internal/core"
)

func TestStore_ExpenseLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	saved, err := s.SaveExpense(ctx, core.RecurringExpense{Name: "Rent", MonthlyAmount: core.Money{Cents: 300000}, StartDate: core.NewDate(2024, 1, 1), IsActive: true})
	if err != nil {
		t.Fatalf("SaveExpense() error = %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}

	saved.MonthlyAmount = core.Money{Cents: 310000}
	if _, err := s.SaveExpense(ctx, saved); err != nil {
		t.Fatalf("update error = %v", err)
	}
	if _, err := s.UpsertInstance(ctx, core.MonthlyExpenseInstance{SourceRecurringExpenseID: saved.ID, MonthKey: "2024-06", Amount: core.Money{Cents: 1}}); err != nil {
		t.Fatalf("UpsertInstance() error = %v", err)
	}

	snap, _ := s.Snapshot(ctx)
	if len(snap.Expenses) != 1 || snap.Expenses[0].MonthlyAmount.Cents != 310000 || len(snap.Instances) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	if err := s.DeleteExpense(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	snap, _ = s.Snapshot(ctx)
	if len(snap.Expenses) != 0 || len(snap.Instances) != 1 {
		t.Fatalf("expense delete must leave its overrides alone, got %+v", snap)
	}
	if err := s.DeleteExpense(ctx, saved.ID); !errors.Is(err, core.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestStore_UpsertInstanceKeepsOnePerSlot(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.UpsertInstance(ctx, core.MonthlyExpenseInstance{SourceRecurringExpenseID: "rent", MonthKey: "2024-06", Amount: core.Money{Cents: 350000}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.UpsertInstance(ctx, core.MonthlyExpenseInstance{SourceRecurringExpenseID: "rent", MonthKey: "2024-06", Amount: core.Money{Cents: 360000}})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("slot id changed: %s -> %s", first.ID, second.ID)
	}

	snap, _ := s.Snapshot(ctx)
	if len(snap.Instances) != 1 || snap.Instances[0].Amount.Cents != 360000 {
		t.Fatalf("unexpected instances %+v", snap.Instances)
	}

	if err := s.DeleteInstance(ctx, "rent", "2024-06"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteInstance(ctx, "rent", "2024-06"); err != nil {
		t.Fatalf("clearing an empty slot must succeed, got %v", err)
	}
}

func TestStore_RejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.UpsertInstance(ctx, core.MonthlyExpenseInstance{SourceRecurringExpenseID: "rent", MonthKey: "2024-13"}); !errors.Is(err, core.ErrInvalidMonthKey) {
		t.Errorf("expected ErrInvalidMonthKey, got %v", err)
	}
	if _, err := s.SaveGig(ctx, core.Gig{Name: "", EventDate: core.NewDate(2024, 1, 1), PaymentDueDate: core.NewDate(2024, 1, 1), Status: core.Pending}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := s.SavePackage(ctx, core.Package{Name: "P", Status: "Unknown"}); !errors.Is(err, core.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.SaveGig(ctx, core.Gig{Name: "Gig", EventDate: core.NewDate(2024, 1, 1), PaymentDueDate: core.NewDate(2024, 1, 2), Status: core.Pending}); err != nil {
		t.Fatal(err)
	}
	snap, _ := s.Snapshot(ctx)
	snap.Gigs[0].Status = core.Paid

	again, _ := s.Snapshot(ctx)
	if again.Gigs[0].Status != core.Pending {
		t.Fatal("snapshot mutation leaked into the store")
	}
	if again.Gigs[0].CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be stamped")
	}
}

func TestStore_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.DeleteGig(ctx, "nope"); !errors.Is(err, core.ErrGigNotFound) {
		t.Errorf("DeleteGig() = %v", err)
	}
	if err := s.DeletePackage(ctx, "nope"); !errors.Is(err, core.ErrPackageNotFound) {
		t.Errorf("DeletePackage() = %v", err)
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	seed := `{
	  "recurringExpenses": [{"id": "rent", "name": "Rent", "monthlyAmount": 3000, "startDate": "2024-01-01", "isActive": true}],
	  "monthlyExpenseInstances": [{"sourceRecurringExpenseId": "rent", "monthKey": "2024-06", "amount": "3500.00"}],
	  "gigs": [{"name": "Gig A", "paymentAmount": 1000, "eventDate": "2024-05-01", "paymentDueDate": "2024-05-15", "status": "Pending"}],
	  "packages": [{"id": "P1", "name": "Retainer", "totalPrice": 2000, "billingDate": "2024-05-01", "status": "Paid"}]
	}`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	snap, _ := s.Snapshot(context.Background())
	if got := core.Summarize("2024-05", snap); got.TotalIncome.Cents != 300000 {
		t.Fatalf("May income = %d, want 300000", got.TotalIncome.Cents)
	}
	if snap.Gigs[0].ID == "" || snap.Instances[0].Amount.Cents != 350000 {
		t.Fatalf("unexpected seeded records %+v", snap)
	}
}

func TestNewFromFileRejectsBadDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	seed := `{"recurringExpenses": [{"name": "Rent", "monthlyAmount": 1, "startDate": "01/02/2024"}]}`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFile(path); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
