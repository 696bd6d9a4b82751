package core

import "time"

// MonthSummary is the balance of a single month.
type MonthSummary struct {
	Month         MonthKey
	TotalExpenses Money
	TotalIncome   Money
	Balance       Money // TotalIncome - TotalExpenses
}

// CashFlowSummary splits a month's income by payment status.
//
// Overdue is a global backlog over every gig and package, not scoped to
// Month: it stays the same whichever month is being viewed.
type CashFlowSummary struct {
	Month          MonthKey
	Paid           Money
	Expected       Money
	Overdue        Money
	TotalExpenses  Money
	ExpectedIncome Money // Paid + Expected
	Balance        Money // ExpectedIncome - TotalExpenses
}

// Summarize combines the month's expense total and reconciled income.
func Summarize(month MonthKey, s Snapshot) MonthSummary {
	expenses := MonthExpenseTotal(s.Expenses, s.Instances, month)
	income := MonthIncome(s.Gigs, s.Packages, month)
	return MonthSummary{
		Month:         month,
		TotalExpenses: expenses,
		TotalIncome:   income,
		Balance:       income.Sub(expenses),
	}
}

// SummarizeCashFlow computes the paid / expected / overdue view of month.
// now is read once by the caller so the three figures agree on "today".
func SummarizeCashFlow(month MonthKey, s Snapshot, now time.Time) CashFlowSummary {
	today := DateOf(now)
	cf := CashFlowSummary{
		Month:         month,
		TotalExpenses: MonthExpenseTotal(s.Expenses, s.Instances, month),
	}

	for _, g := range s.Gigs {
		if !IsIndependent(g) {
			continue
		}
		if month.Contains(g.PaymentDueDate) {
			switch {
			case g.Status == Paid:
				cf.Paid = cf.Paid.Add(g.PaymentAmount)
			case g.Status == Pending && !g.PaymentDueDate.Before(today):
				cf.Expected = cf.Expected.Add(g.PaymentAmount)
			}
		}
		if isOverdueOn(g, today) {
			cf.Overdue = cf.Overdue.Add(g.PaymentAmount)
		}
	}

	for _, p := range s.Packages {
		if p.BillingDate.IsEmpty() {
			continue
		}
		if month.Contains(p.BillingDate) {
			switch {
			case p.Status == Paid:
				cf.Paid = cf.Paid.Add(p.TotalPrice)
			case p.Status == Pending && !p.BillingDate.Before(today):
				cf.Expected = cf.Expected.Add(p.TotalPrice)
			}
		}
		if p.Status == Pending && p.BillingDate.Before(today) {
			cf.Overdue = cf.Overdue.Add(p.TotalPrice)
		}
	}

	cf.ExpectedIncome = cf.Paid.Add(cf.Expected)
	cf.Balance = cf.ExpectedIncome.Sub(cf.TotalExpenses)
	return cf
}
