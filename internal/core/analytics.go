package core

import (
	"sort"
	"strings"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// UncategorizedLabel groups expenses with a blank category.
const UncategorizedLabel = "Uncategorized"

// EssentialFilter is the tripartite filter on RecurringExpense.IsEssential.
type EssentialFilter string

const (
	EssentialAll  EssentialFilter = "all"
	EssentialOnly EssentialFilter = "essential"
	NonEssential  EssentialFilter = "non-essential"
)

// ParseEssentialFilter maps "", "all", "essential", "non-essential".
func ParseEssentialFilter(s string) (EssentialFilter, bool) {
	switch EssentialFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", EssentialAll:
		return EssentialAll, true
	case EssentialOnly:
		return EssentialOnly, true
	case NonEssential:
		return NonEssential, true
	}
	return EssentialAll, false
}

// AnalyticsFilter is applied to each charge before accumulation.
type AnalyticsFilter struct {
	Category  string // exact match; "" or CategoryAll for every category
	Essential EssentialFilter
}

func (f AnalyticsFilter) match(e RecurringExpense) bool {
	if f.Category != "" && f.Category != CategoryAll && e.Category != f.Category {
		return false
	}
	switch f.Essential {
	case EssentialOnly:
		return e.IsEssential
	case NonEssential:
		return !e.IsEssential
	}
	return true
}

// CategoryAnalytics aggregates one category over the window.
type CategoryAnalytics struct {
	Total          Money
	Count          int     // charge instances, one per expense per charged month
	MonthlyAverage float64 // Total over the full window length, in currency units
	ExpenseIDs     []string
}

// ExpenseAnalytics is the result of AggregateExpenses.
type ExpenseAnalytics struct {
	Months            []MonthKey
	TotalExpenses     Money
	CategoryBreakdown map[string]CategoryAnalytics
	MonthlyBreakdown  map[MonthKey]Money
}

// AggregateExpenses walks the grid of the window and accumulates the charges
// that pass filter. Averages divide by count, not by the number of months a
// category was charged.
func AggregateExpenses(expenses []RecurringExpense, instances []MonthlyExpenseInstance, start MonthKey, count int, filter AnalyticsFilter) ExpenseAnalytics {
	grid := BuildGrid(expenses, instances, start, count)
	out := ExpenseAnalytics{
		Months:            grid.Months,
		CategoryBreakdown: make(map[string]CategoryAnalytics),
		MonthlyBreakdown:  make(map[MonthKey]Money, len(grid.Months)),
	}
	seen := make(map[string]map[string]bool)

	for _, month := range grid.Months {
		var monthTotal Money
		for _, e := range expenses {
			amount, ok := grid.Amount(month, e.ID)
			if !ok || !filter.match(e) {
				continue
			}
			monthTotal = monthTotal.Add(amount)
			out.TotalExpenses = out.TotalExpenses.Add(amount)

			name := e.Category
			if strings.TrimSpace(name) == "" {
				name = UncategorizedLabel
			}
			cat := out.CategoryBreakdown[name]
			cat.Total = cat.Total.Add(amount)
			cat.Count++
			if seen[name] == nil {
				seen[name] = make(map[string]bool)
			}
			if !seen[name][e.ID] {
				seen[name][e.ID] = true
				cat.ExpenseIDs = append(cat.ExpenseIDs, e.ID)
			}
			out.CategoryBreakdown[name] = cat
		}
		out.MonthlyBreakdown[month] = monthTotal
	}

	if count > 0 {
		for name, cat := range out.CategoryBreakdown {
			cat.MonthlyAverage = cat.Total.Float() / float64(count)
			out.CategoryBreakdown[name] = cat
		}
	}
	return out
}

// SortedCategories returns the category names ordered by descending total,
// then by name.
func (a ExpenseAnalytics) SortedCategories() []string {
	names := make([]string, 0, len(a.CategoryBreakdown))
	for name := range a.CategoryBreakdown {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ti, tj := a.CategoryBreakdown[names[i]].Total, a.CategoryBreakdown[names[j]].Total
		if ti.Cents != tj.Cents {
			return ti.Cents > tj.Cents
		}
		return names[i] < names[j]
	})
	return names
}

// Categories returns the distinct non-blank categories of expenses, sorted.
func Categories(expenses []RecurringExpense) []string {
	set := make(map[string]struct{})
	for _, e := range expenses {
		if strings.TrimSpace(e.Category) != "" {
			set[e.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
