package core

import (
	"errors"
	"testing"
)

func TestPlanOverride(t *testing.T) {
	expenses := []RecurringExpense{rentExpense()}

	tests := []struct {
		name    string
		id      string
		month   MonthKey
		amount  int64
		action  OverrideAction
		wantErr error
	}{
		{"different amount is saved", "rent", "2024-06", 350000, OverrideSave, nil},
		{"zero is a real override", "rent", "2024-06", 0, OverrideSave, nil},
		{"base amount removes the slot", "rent", "2024-06", 300000, OverrideRemove, nil},
		{"unknown expense", "gym", "2024-06", 100, 0, ErrExpenseNotFound},
		{"malformed month", "rent", "2024-6", 100, 0, ErrInvalidMonthKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanOverride(expenses, tt.id, tt.month, Money{Cents: tt.amount}, "note")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PlanOverride() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlanOverride() unexpected error: %v", err)
			}
			if plan.Action != tt.action {
				t.Errorf("Action = %s, want %s", plan.Action, tt.action)
			}
			if plan.Instance.SourceRecurringExpenseID != tt.id || plan.Instance.MonthKey != tt.month || !plan.Instance.IsOneTime {
				t.Errorf("unexpected instance %+v", plan.Instance)
			}
		})
	}
}

// Applying a removal plan must leave the grid exactly as if no override had
// ever been stored.
func TestPlanOverrideRemovalMatchesBaseGrid(t *testing.T) {
	expenses := []RecurringExpense{rentExpense()}
	instances := []MonthlyExpenseInstance{
		{SourceRecurringExpenseID: "rent", MonthKey: "2024-06", Amount: Money{Cents: 350000}},
	}

	plan, err := PlanOverride(expenses, "rent", "2024-06", Money{Cents: 300000}, "")
	if err != nil || plan.Action != OverrideRemove {
		t.Fatalf("expected removal, got %+v %v", plan, err)
	}

	var kept []MonthlyExpenseInstance
	for _, inst := range instances {
		if inst.SourceRecurringExpenseID != plan.Instance.SourceRecurringExpenseID || inst.MonthKey != plan.Instance.MonthKey {
			kept = append(kept, inst)
		}
	}

	after := BuildGrid(expenses, kept, "2024-01", 12)
	base := BuildGrid(expenses, nil, "2024-01", 12)
	for _, m := range base.Months {
		a, _ := after.Amount(m, "rent")
		b, _ := base.Amount(m, "rent")
		if a != b {
			t.Errorf("%s: %d != %d", m, a.Cents, b.Cents)
		}
	}
}
