package core

// ResolveExpense returns the effective charge of expense in month.
//
// Precedence is fixed: a matching override wins unconditionally (even for an
// inactive or out-of-range expense), then the active flag, then the inclusive
// [month(StartDate), month(EndDate)] range. The bool is false when the
// expense is not applicable to the month.
func ResolveExpense(expense RecurringExpense, month MonthKey, instance *MonthlyExpenseInstance) (Money, bool) {
	if instance != nil {
		return instance.Amount, true
	}
	if !expense.IsActive {
		return Money{}, false
	}
	if !expense.CoversMonth(month) {
		return Money{}, false
	}
	return expense.MonthlyAmount, true
}

// CoversMonth reports whether month lies inside the expense's date range,
// ignoring the active flag and overrides.
func (e RecurringExpense) CoversMonth(month MonthKey) bool {
	if start := MonthKeyOf(e.StartDate); !start.IsZero() && start.After(month) {
		return false
	}
	if end := MonthKeyOf(e.EndDate); !end.IsZero() && end.Before(month) {
		return false
	}
	return true
}

// IsRelevant reports whether the base rule (no override) charges in month.
func (e RecurringExpense) IsRelevant(month MonthKey) bool {
	return e.IsActive && e.CoversMonth(month)
}

// FindExpense looks an expense up by id. Missing ids are a normal outcome.
func FindExpense(expenses []RecurringExpense, id string) (RecurringExpense, bool) {
	for _, e := range expenses {
		if e.ID == id {
			return e, true
		}
	}
	return RecurringExpense{}, false
}

// FindInstance returns the override for (expenseID, month), if any. With
// duplicates in the input the last one wins, matching BuildGrid.
func FindInstance(instances []MonthlyExpenseInstance, expenseID string, month MonthKey) (MonthlyExpenseInstance, bool) {
	var (
		found MonthlyExpenseInstance
		ok    bool
	)
	for _, inst := range instances {
		if inst.SourceRecurringExpenseID == expenseID && inst.MonthKey == month {
			found, ok = inst, true
		}
	}
	return found, ok
}
