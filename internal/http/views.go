package http

import (
	"encoding/json"
	"sort"

	"gigledger/internal/core"
	"gigledger/internal/ledger"
	"gigledger/internal/services"
)

// Amounts are encoded as JSON numbers in currency units, rendered from
// cents without going through float64.
func amount(m core.Money) json.Number {
	return json.Number(m.String())
}

type summaryView struct {
	Month         core.MonthKey `json:"month"`
	TotalExpenses json.Number   `json:"totalExpenses"`
	TotalIncome   json.Number   `json:"totalIncome"`
	Balance       json.Number   `json:"balance"`
	CashFlow      cashFlowView  `json:"cashFlow"`
}

type cashFlowView struct {
	Paid           json.Number `json:"paid"`
	Expected       json.Number `json:"expected"`
	Overdue        json.Number `json:"overdue"`
	ExpectedIncome json.Number `json:"expectedIncome"`
	Balance        json.Number `json:"balance"`
}

func newSummaryView(r services.MonthReport) summaryView {
	return summaryView{
		Month:         r.Summary.Month,
		TotalExpenses: amount(r.Summary.TotalExpenses),
		TotalIncome:   amount(r.Summary.TotalIncome),
		Balance:       amount(r.Summary.Balance),
		CashFlow: cashFlowView{
			Paid:           amount(r.CashFlow.Paid),
			Expected:       amount(r.CashFlow.Expected),
			Overdue:        amount(r.CashFlow.Overdue),
			ExpectedIncome: amount(r.CashFlow.ExpectedIncome),
			Balance:        amount(r.CashFlow.Balance),
		},
	}
}

type incomeView struct {
	Month    core.MonthKey `json:"month"`
	Gigs     json.Number   `json:"gigs"`
	Packages json.Number   `json:"packages"`
	Total    json.Number   `json:"total"`
}

func newIncomeView(b core.IncomeBreakdown) incomeView {
	return incomeView{
		Month:    b.Month,
		Gigs:     amount(b.Gigs),
		Packages: amount(b.Packages),
		Total:    amount(b.Total),
	}
}

type forecastView struct {
	Months []core.MonthKey   `json:"months"`
	Rows   []forecastRowView `json:"rows"`
	Totals []json.Number     `json:"totals"`
}

// Cells line up with Months; a nil cell means the expense does not apply.
type forecastRowView struct {
	ExpenseID string         `json:"expenseId"`
	Name      string         `json:"name"`
	Category  string         `json:"category,omitempty"`
	Cells     []*json.Number `json:"cells"`
}

func newForecastView(f services.Forecast) forecastView {
	v := forecastView{
		Months: f.Grid.Months,
		Rows:   make([]forecastRowView, 0, len(f.Expenses)),
		Totals: make([]json.Number, 0, len(f.Totals)),
	}
	if v.Months == nil {
		v.Months = []core.MonthKey{}
	}
	for _, e := range f.Expenses {
		row := forecastRowView{
			ExpenseID: e.ID,
			Name:      e.Name,
			Category:  e.Category,
			Cells:     make([]*json.Number, len(f.Grid.Months)),
		}
		for i, m := range f.Grid.Months {
			if a, ok := f.Grid.Amount(m, e.ID); ok {
				n := amount(a)
				row.Cells[i] = &n
			}
		}
		v.Rows = append(v.Rows, row)
	}
	for _, t := range f.Totals {
		v.Totals = append(v.Totals, amount(t))
	}
	return v
}

type analyticsView struct {
	Months            []core.MonthKey               `json:"months"`
	TotalExpenses     json.Number                   `json:"totalExpenses"`
	CategoryBreakdown map[string]categoryView       `json:"categoryBreakdown"`
	MonthlyBreakdown  map[core.MonthKey]json.Number `json:"monthlyBreakdown"`
	Categories        []string                      `json:"categories"`
}

type categoryView struct {
	Total          json.Number `json:"total"`
	Count          int         `json:"count"`
	MonthlyAverage float64     `json:"monthlyAverage"`
	ExpenseIDs     []string    `json:"expenseIds"`
}

func newAnalyticsView(a core.ExpenseAnalytics) analyticsView {
	v := analyticsView{
		Months:            a.Months,
		TotalExpenses:     amount(a.TotalExpenses),
		CategoryBreakdown: make(map[string]categoryView, len(a.CategoryBreakdown)),
		MonthlyBreakdown:  make(map[core.MonthKey]json.Number, len(a.MonthlyBreakdown)),
		Categories:        a.SortedCategories(),
	}
	for name, c := range a.CategoryBreakdown {
		v.CategoryBreakdown[name] = categoryView{
			Total:          amount(c.Total),
			Count:          c.Count,
			MonthlyAverage: c.MonthlyAverage,
			ExpenseIDs:     c.ExpenseIDs,
		}
	}
	for m, total := range a.MonthlyBreakdown {
		v.MonthlyBreakdown[m] = amount(total)
	}
	return v
}

type yearlyView struct {
	Year    int             `json:"year"`
	Months  []yearMonthView `json:"months"`
	Sources []sourceView    `json:"sources"`
}

type yearMonthView struct {
	Month      core.MonthKey `json:"month"`
	Paid       json.Number   `json:"paid"`
	Expected   json.Number   `json:"expected"`
	EventCount int           `json:"eventCount"`
}

type sourceView struct {
	Source string      `json:"source"`
	Amount json.Number `json:"amount"`
}

func newYearlyView(r services.YearlyReport) yearlyView {
	v := yearlyView{
		Year:    r.Year,
		Months:  make([]yearMonthView, 0, len(r.Months)),
		Sources: make([]sourceView, 0, len(r.Sources)),
	}
	for _, p := range r.Months {
		v.Months = append(v.Months, yearMonthView{
			Month:      p.Month,
			Paid:       amount(p.Paid),
			Expected:   amount(p.Expected),
			EventCount: p.EventCount,
		})
	}
	for _, s := range r.Sources {
		v.Sources = append(v.Sources, sourceView{Source: s.Source, Amount: amount(s.Amount)})
	}
	return v
}

type packageUsageView struct {
	Package          ledger.PackageRecord `json:"package"`
	UsedWorkshops    int                  `json:"usedWorkshops"`
	UsedHours        float64              `json:"usedHours"`
	WorkshopProgress float64              `json:"workshopProgress"`
	HoursProgress    float64              `json:"hoursProgress"`
	LinkedGigs       int                  `json:"linkedGigs"`
}

func newPackageUsageViews(reports []services.PackageReport) []packageUsageView {
	out := make([]packageUsageView, 0, len(reports))
	for _, r := range reports {
		out = append(out, packageUsageView{
			Package:          ledger.FromPackage(r.Package),
			UsedWorkshops:    r.Usage.UsedWorkshops,
			UsedHours:        r.Usage.UsedHours,
			WorkshopProgress: r.Usage.WorkshopProgress,
			HoursProgress:    r.Usage.HoursProgress,
			LinkedGigs:       r.LinkedGigs,
		})
	}
	return out
}

// newGigViews orders gigs by due date, newest first, the way the gig list
// is read.
func newGigViews(gigs []core.Gig) []ledger.GigRecord {
	sorted := append([]core.Gig(nil), gigs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].PaymentDueDate.Before(sorted[i].PaymentDueDate)
	})
	out := make([]ledger.GigRecord, 0, len(sorted))
	for _, g := range sorted {
		out = append(out, ledger.FromGig(g))
	}
	return out
}

type overrideView struct {
	Action   string                `json:"action"`
	Instance ledger.InstanceRecord `json:"instance"`
}
