package core

import "testing"

func analyticsFixture() []RecurringExpense {
	return []RecurringExpense{
		rentExpense(),
		{ID: "netflix", Name: "Streaming", MonthlyAmount: Money{Cents: 5000}, Category: "Leisure", StartDate: NewDate(2024, 1, 1), IsActive: true},
		{ID: "insurance", Name: "Insurance", MonthlyAmount: Money{Cents: 60000}, Category: "Leisure", StartDate: NewDate(2024, 3, 1), EndDate: NewDate(2024, 4, 30), IsActive: true},
		{ID: "misc", Name: "Misc", MonthlyAmount: Money{Cents: 100}, StartDate: NewDate(2024, 1, 1), IsActive: true},
	}
}

func TestAggregateExpensesAveragesOverWholeWindow(t *testing.T) {
	a := AggregateExpenses(analyticsFixture(), nil, "2024-01", 12, AnalyticsFilter{Category: "Leisure"})

	leisure, ok := a.CategoryBreakdown["Leisure"]
	if !ok {
		t.Fatalf("missing Leisure category: %+v", a.CategoryBreakdown)
	}
	// 12 x 50 + 2 x 600 = 1800 over 12 months.
	if leisure.Total.Cents != 180000 {
		t.Errorf("Total = %d, want 180000", leisure.Total.Cents)
	}
	if leisure.Count != 14 {
		t.Errorf("Count = %d, want 14 charge instances", leisure.Count)
	}
	if leisure.MonthlyAverage != 150 {
		t.Errorf("MonthlyAverage = %v, want 150", leisure.MonthlyAverage)
	}
	if len(leisure.ExpenseIDs) != 2 {
		t.Errorf("ExpenseIDs = %v, want 2 distinct", leisure.ExpenseIDs)
	}
	if _, ok := a.CategoryBreakdown["Housing"]; ok {
		t.Errorf("category filter let Housing through")
	}
	if a.MonthlyBreakdown["2024-03"].Cents != 65000 || a.MonthlyBreakdown["2024-05"].Cents != 5000 {
		t.Errorf("unexpected monthly breakdown %v", a.MonthlyBreakdown)
	}
}

func TestAggregateExpensesSparseCategoryAverage(t *testing.T) {
	expenses := []RecurringExpense{
		{ID: "x", MonthlyAmount: Money{Cents: 60000}, Category: "Tax", StartDate: NewDate(2024, 4, 1), EndDate: NewDate(2024, 5, 31), IsActive: true},
	}
	a := AggregateExpenses(expenses, nil, "2024-01", 12, AnalyticsFilter{})
	if got := a.CategoryBreakdown["Tax"].MonthlyAverage; got != 100 {
		t.Fatalf("MonthlyAverage = %v, want 100", got)
	}
}

func TestAggregateExpensesEssentialFilter(t *testing.T) {
	tests := []struct {
		name      string
		filter    EssentialFilter
		wantTotal int64
	}{
		{"all", EssentialAll, 300000 + 5000 + 100},
		{"essential only", EssentialOnly, 300000},
		{"non-essential only", NonEssential, 5000 + 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AggregateExpenses(analyticsFixture(), nil, "2024-06", 1, AnalyticsFilter{Category: CategoryAll, Essential: tt.filter})
			if a.TotalExpenses.Cents != tt.wantTotal {
				t.Errorf("TotalExpenses = %d, want %d", a.TotalExpenses.Cents, tt.wantTotal)
			}
		})
	}
}

func TestAggregateExpensesUsesOverridesAndBlankCategory(t *testing.T) {
	instances := []MonthlyExpenseInstance{
		{SourceRecurringExpenseID: "misc", MonthKey: "2024-01", Amount: Money{Cents: 0}},
	}
	a := AggregateExpenses(analyticsFixture(), instances, "2024-01", 2, AnalyticsFilter{})
	misc := a.CategoryBreakdown[UncategorizedLabel]
	if misc.Count != 2 || misc.Total.Cents != 100 {
		t.Fatalf("uncategorized = %+v, want 2 charges totalling 100", misc)
	}
	if got := a.SortedCategories(); len(got) != 3 || got[0] != "Housing" {
		t.Fatalf("SortedCategories = %v", got)
	}
}

func TestAggregateExpensesEmptyWindow(t *testing.T) {
	a := AggregateExpenses(analyticsFixture(), nil, "2024-01", 0, AnalyticsFilter{})
	if len(a.CategoryBreakdown) != 0 || !a.TotalExpenses.IsZero() {
		t.Fatalf("expected empty analytics, got %+v", a)
	}
}

func TestParseEssentialFilter(t *testing.T) {
	for in, want := range map[string]EssentialFilter{"": EssentialAll, "ALL": EssentialAll, "essential": EssentialOnly, "Non-Essential": NonEssential} {
		got, ok := ParseEssentialFilter(in)
		if !ok || got != want {
			t.Errorf("ParseEssentialFilter(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseEssentialFilter("maybe"); ok {
		t.Errorf("expected rejection")
	}
}

func TestCategories(t *testing.T) {
	got := Categories(analyticsFixture())
	if len(got) != 2 || got[0] != "Housing" || got[1] != "Leisure" {
		t.Fatalf("Categories = %v", got)
	}
}
