package core

import "testing"

func rentExpense() RecurringExpense {
	return RecurringExpense{
		ID:            "rent",
		Name:          "Rent",
		MonthlyAmount: Money{Cents: 300000},
		Category:      "Housing",
		StartDate:     NewDate(2024, 1, 1),
		IsActive:      true,
		IsEssential:   true,
	}
}

func TestResolveExpense(t *testing.T) {
	base := RecurringExpense{
		ID:            "e1",
		MonthlyAmount: Money{Cents: 10000},
		StartDate:     NewDate(2024, 3, 15),
		EndDate:       NewDate(2024, 6, 10),
		IsActive:      true,
	}
	inactive := base
	inactive.IsActive = false
	override := &MonthlyExpenseInstance{SourceRecurringExpenseID: "e1", MonthKey: "2024-04", Amount: Money{Cents: 15000}}
	outOfRange := &MonthlyExpenseInstance{SourceRecurringExpenseID: "e1", MonthKey: "2024-09", Amount: Money{Cents: 500}}

	tests := []struct {
		name     string
		expense  RecurringExpense
		month    MonthKey
		instance *MonthlyExpenseInstance
		want     int64
		wantOK   bool
	}{
		{"before start month", base, "2024-02", nil, 0, false},
		{"start month is inclusive", base, "2024-03", nil, 10000, true},
		{"inside range", base, "2024-05", nil, 10000, true},
		{"end month is inclusive", base, "2024-06", nil, 10000, true},
		{"after end month", base, "2024-07", nil, 0, false},
		{"override wins in range", base, "2024-04", override, 15000, true},
		{"override wins out of range", base, "2024-09", outOfRange, 500, true},
		{"override wins over inactive", inactive, "2024-04", override, 15000, true},
		{"inactive without override", inactive, "2024-04", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveExpense(tt.expense, tt.month, tt.instance)
			if ok != tt.wantOK || got.Cents != tt.want {
				t.Errorf("ResolveExpense() = (%d, %v), want (%d, %v)", got.Cents, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveExpenseOpenEnded(t *testing.T) {
	e := RecurringExpense{ID: "e", MonthlyAmount: Money{Cents: 100}, StartDate: NewDate(2024, 3, 15), IsActive: true}
	if _, ok := ResolveExpense(e, "2024-02", nil); ok {
		t.Fatalf("2024-02 must not be applicable")
	}
	for _, m := range MonthRange("2024-03", 60) {
		if _, ok := ResolveExpense(e, m, nil); !ok {
			t.Fatalf("%s must be applicable", m)
		}
	}
}

func TestBuildGridRentScenario(t *testing.T) {
	expenses := []RecurringExpense{rentExpense()}
	instances := []MonthlyExpenseInstance{
		{SourceRecurringExpenseID: "rent", MonthKey: "2024-06", Amount: Money{Cents: 350000}, IsOneTime: true},
	}

	grid := BuildGrid(expenses, instances, "2024-01", 12)
	if len(grid.Months) != 12 || grid.Months[11] != "2024-12" {
		t.Fatalf("unexpected months %v", grid.Months)
	}
	for _, m := range grid.Months {
		want := int64(300000)
		if m == "2024-06" {
			want = 350000
		}
		got, ok := grid.Amount(m, "rent")
		if !ok || got.Cents != want {
			t.Errorf("%s: got (%d, %v), want %d", m, got.Cents, ok, want)
		}
	}
}

func TestBuildGridAbsenceVersusZero(t *testing.T) {
	ended := RecurringExpense{ID: "gym", MonthlyAmount: Money{Cents: 5000}, StartDate: NewDate(2024, 1, 1), EndDate: NewDate(2024, 2, 28), IsActive: true}
	skipped := rentExpense()
	instances := []MonthlyExpenseInstance{
		{SourceRecurringExpenseID: "rent", MonthKey: "2024-03", Amount: Money{}},
	}

	grid := BuildGrid([]RecurringExpense{ended, skipped}, instances, "2024-03", 1)

	if grid.Has("2024-03", "gym") {
		t.Errorf("out-of-range expense must have no cell")
	}
	amount, ok := grid.Amount("2024-03", "rent")
	if !ok || !amount.IsZero() {
		t.Errorf("zero override must produce a zero cell, got (%d, %v)", amount.Cents, ok)
	}
	if grid.Row("2024-03") == nil {
		t.Errorf("generated month must have a row even when sparse")
	}
}

func TestBuildGridIgnoresDanglingInstances(t *testing.T) {
	instances := []MonthlyExpenseInstance{
		{SourceRecurringExpenseID: "deleted", MonthKey: "2024-01", Amount: Money{Cents: 999}},
		{SourceRecurringExpenseID: "", MonthKey: "2024-01", Amount: Money{Cents: 1}},
	}
	grid := BuildGrid([]RecurringExpense{rentExpense()}, instances, "2024-01", 1)

	if len(grid.Row("2024-01")) != 1 {
		t.Fatalf("expected only the rent cell, got %v", grid.Row("2024-01"))
	}
	if total := grid.MonthTotal("2024-01"); total.Cents != 300000 {
		t.Fatalf("MonthTotal = %d, want 300000", total.Cents)
	}
}

func TestBuildGridLastDuplicateInstanceWins(t *testing.T) {
	instances := []MonthlyExpenseInstance{
		{SourceRecurringExpenseID: "rent", MonthKey: "2024-01", Amount: Money{Cents: 1}},
		{SourceRecurringExpenseID: "rent", MonthKey: "2024-01", Amount: Money{Cents: 2}},
	}
	grid := BuildGrid([]RecurringExpense{rentExpense()}, instances, "2024-01", 1)
	if got, _ := grid.Amount("2024-01", "rent"); got.Cents != 2 {
		t.Fatalf("got %d, want 2", got.Cents)
	}
	if inst, ok := FindInstance(instances, "rent", "2024-01"); !ok || inst.Amount.Cents != 2 {
		t.Fatalf("FindInstance disagrees with grid: %+v %v", inst, ok)
	}
}

func TestBuildGridDoesNotMutateInputs(t *testing.T) {
	expenses := []RecurringExpense{rentExpense()}
	instances := []MonthlyExpenseInstance{{SourceRecurringExpenseID: "rent", MonthKey: "2024-02", Amount: Money{Cents: 1}}}
	BuildGrid(expenses, instances, "2024-01", 3)
	if expenses[0].MonthlyAmount.Cents != 300000 || instances[0].Amount.Cents != 1 {
		t.Fatalf("inputs were modified")
	}
}

func TestMonthExpenseTotalWithNegativeCredit(t *testing.T) {
	credit := RecurringExpense{ID: "refund", MonthlyAmount: Money{Cents: -2500}, StartDate: NewDate(2024, 1, 1), IsActive: true}
	total := MonthExpenseTotal([]RecurringExpense{rentExpense(), credit}, nil, "2024-04")
	if total.Cents != 297500 {
		t.Fatalf("total = %d, want 297500", total.Cents)
	}
}

func TestBuildGridEmptyWindow(t *testing.T) {
	grid := BuildGrid([]RecurringExpense{rentExpense()}, nil, "2024-01", 0)
	if len(grid.Months) != 0 || len(grid.Cells) != 0 {
		t.Fatalf("expected empty grid, got %+v", grid)
	}
}
