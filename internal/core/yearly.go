package core

import (
	"sort"
	"strings"
	"time"
)

// UnknownSourceLabel groups paid income with a blank supplier or client.
const UnknownSourceLabel = "Unknown"

// MonthIncomePoint is one month of the yearly income series.
type MonthIncomePoint struct {
	Month      MonthKey
	Paid       Money
	Expected   Money // pending, regardless of due date
	EventCount int   // independent gigs by event month
}

// SourceAmount is paid income attributed to one supplier or client.
type SourceAmount struct {
	Source string
	Amount Money
}

// YearlyIncome builds the 12-month series for year. Gigs follow the same
// package exclusion as ReconcileIncome.
func YearlyIncome(gigs []Gig, packages []Package, year int) []MonthIncomePoint {
	points := make([]MonthIncomePoint, 12)
	for i := range points {
		points[i].Month = NewMonthKey(year, time.Month(i+1))
	}

	for _, g := range gigs {
		if !IsIndependent(g) {
			continue
		}
		if !g.PaymentDueDate.IsEmpty() && g.PaymentDueDate.Year() == year {
			p := &points[g.PaymentDueDate.Month()-1]
			switch g.Status {
			case Paid:
				p.Paid = p.Paid.Add(g.PaymentAmount)
			case Pending:
				p.Expected = p.Expected.Add(g.PaymentAmount)
			}
		}
		if !g.EventDate.IsEmpty() && g.EventDate.Year() == year {
			points[g.EventDate.Month()-1].EventCount++
		}
	}

	for _, pkg := range packages {
		if pkg.BillingDate.IsEmpty() || pkg.BillingDate.Year() != year {
			continue
		}
		p := &points[pkg.BillingDate.Month()-1]
		switch pkg.Status {
		case Paid:
			p.Paid = p.Paid.Add(pkg.TotalPrice)
		case Pending:
			p.Expected = p.Expected.Add(pkg.TotalPrice)
		}
	}
	return points
}

// IncomeBySource ranks paid income of year by supplier (gigs) and client
// (packages), largest first.
func IncomeBySource(gigs []Gig, packages []Package, year int) []SourceAmount {
	totals := make(map[string]Money)
	add := func(name string, m Money) {
		name = strings.TrimSpace(name)
		if name == "" {
			name = UnknownSourceLabel
		}
		totals[name] = totals[name].Add(m)
	}

	for _, g := range gigs {
		if IsIndependent(g) && g.Status == Paid && !g.PaymentDueDate.IsEmpty() && g.PaymentDueDate.Year() == year {
			add(g.SupplierName, g.PaymentAmount)
		}
	}
	for _, p := range packages {
		if p.Status == Paid && !p.BillingDate.IsEmpty() && p.BillingDate.Year() == year {
			add(p.ClientName, p.TotalPrice)
		}
	}

	out := make([]SourceAmount, 0, len(totals))
	for name, m := range totals {
		out = append(out, SourceAmount{Source: name, Amount: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Source < out[j].Source
	})
	return out
}
