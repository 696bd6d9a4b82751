package core

import "fmt"

// OverrideEpsilon is the tolerance under which an override equals the base
// amount. With integer cents it reduces to exact equality.
var OverrideEpsilon = Money{Cents: 1}

// OverrideAction tells the store what to do with a requested override.
type OverrideAction int

const (
	// OverrideSave upserts Instance into the (expense, month) slot.
	OverrideSave OverrideAction = iota
	// OverrideRemove deletes whatever occupies the slot; the base amount applies.
	OverrideRemove
)

func (a OverrideAction) String() string {
	if a == OverrideRemove {
		return "remove"
	}
	return "save"
}

// OverridePlan is the outcome of PlanOverride.
type OverridePlan struct {
	Action   OverrideAction
	Instance MonthlyExpenseInstance
}

// PlanOverride decides how to store an override of amount for the expense in
// month. An amount equal to the base MonthlyAmount is redundant and is
// planned as a removal, keeping the override set minimal.
func PlanOverride(expenses []RecurringExpense, expenseID string, month MonthKey, amount Money, notes string) (OverridePlan, error) {
	if _, err := ParseMonthKey(string(month)); err != nil {
		return OverridePlan{}, err
	}
	expense, ok := FindExpense(expenses, expenseID)
	if !ok {
		return OverridePlan{}, fmt.Errorf("%w: %s", ErrExpenseNotFound, expenseID)
	}
	inst := MonthlyExpenseInstance{
		SourceRecurringExpenseID: expenseID,
		MonthKey:                 month,
		Amount:                   amount,
		IsOneTime:                true,
		Notes:                    notes,
	}
	if amount.Sub(expense.MonthlyAmount).Abs().Cents < OverrideEpsilon.Cents {
		return OverridePlan{Action: OverrideRemove, Instance: inst}, nil
	}
	return OverridePlan{Action: OverrideSave, Instance: inst}, nil
}
