package core

// instanceKey identifies an override slot.
type instanceKey struct {
	expenseID string
	month     MonthKey
}

// InstanceIndex gives O(1) override lookup by (expense id, month).
type InstanceIndex map[instanceKey]*MonthlyExpenseInstance

// IndexInstances builds the lookup index. Instances without a source expense
// are skipped; for duplicate slots the last instance wins.
func IndexInstances(instances []MonthlyExpenseInstance) InstanceIndex {
	idx := make(InstanceIndex, len(instances))
	for i := range instances {
		inst := &instances[i]
		if inst.SourceRecurringExpenseID == "" {
			continue
		}
		idx[instanceKey{inst.SourceRecurringExpenseID, inst.MonthKey}] = inst
	}
	return idx
}

// Lookup returns the override for the slot or nil.
func (idx InstanceIndex) Lookup(expenseID string, month MonthKey) *MonthlyExpenseInstance {
	return idx[instanceKey{expenseID, month}]
}

// ExpenseGrid is a per-month, per-expense table of effective charges.
// A missing cell means "not charged this month"; a zero cell is a real
// zero charge. Callers must keep the two apart.
type ExpenseGrid struct {
	Months []MonthKey
	Cells  map[MonthKey]map[string]Money
}

// BuildGrid expands expenses over count consecutive months from start.
// Every generated month gets a (possibly empty) row.
func BuildGrid(expenses []RecurringExpense, instances []MonthlyExpenseInstance, start MonthKey, count int) ExpenseGrid {
	months := MonthRange(start, count)
	grid := ExpenseGrid{
		Months: months,
		Cells:  make(map[MonthKey]map[string]Money, len(months)),
	}
	idx := IndexInstances(instances)

	for _, month := range months {
		row := make(map[string]Money)
		for _, e := range expenses {
			if amount, ok := ResolveExpense(e, month, idx.Lookup(e.ID, month)); ok {
				row[e.ID] = amount
			}
		}
		grid.Cells[month] = row
	}
	return grid
}

// Amount returns the cell for (month, expenseID) and whether it exists.
func (g ExpenseGrid) Amount(month MonthKey, expenseID string) (Money, bool) {
	row, ok := g.Cells[month]
	if !ok {
		return Money{}, false
	}
	amount, ok := row[expenseID]
	return amount, ok
}

// Has reports whether the expense is charged in month.
func (g ExpenseGrid) Has(month MonthKey, expenseID string) bool {
	_, ok := g.Amount(month, expenseID)
	return ok
}

// Row returns the charges for one month; nil if the month is outside the grid.
func (g ExpenseGrid) Row(month MonthKey) map[string]Money {
	return g.Cells[month]
}

// MonthTotal sums every applicable cell of month.
func (g ExpenseGrid) MonthTotal(month MonthKey) Money {
	var total Money
	for _, amount := range g.Cells[month] {
		total = total.Add(amount)
	}
	return total
}

// Totals returns MonthTotal for every month of the grid, in order.
func (g ExpenseGrid) Totals() []Money {
	totals := make([]Money, len(g.Months))
	for i, m := range g.Months {
		totals[i] = g.MonthTotal(m)
	}
	return totals
}

// MonthExpenseTotal is the single-month grid total.
func MonthExpenseTotal(expenses []RecurringExpense, instances []MonthlyExpenseInstance, month MonthKey) Money {
	return BuildGrid(expenses, instances, month, 1).MonthTotal(month)
}
