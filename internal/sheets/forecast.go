package sheets

import "gigledger/internal/core"

// NewForecast lays out grid for export. Rows follow the order of expenses;
// expenses with no cell in the window are left out.
func NewForecast(grid core.ExpenseGrid, expenses []core.RecurringExpense) Forecast {
	f := Forecast{
		Months: append([]core.MonthKey(nil), grid.Months...),
		Totals: grid.Totals(),
	}
	for _, e := range expenses {
		row := ForecastRow{
			ExpenseID: e.ID,
			Name:      e.Name,
			Category:  e.Category,
			Cells:     make(map[core.MonthKey]core.Money),
		}
		for _, m := range grid.Months {
			if amount, ok := grid.Amount(m, e.ID); ok {
				row.Cells[m] = amount
			}
		}
		if len(row.Cells) > 0 {
			f.Rows = append(f.Rows, row)
		}
	}
	return f
}

// Total returns the column total of month, or zero when month is not exported.
func (f Forecast) Total(month core.MonthKey) core.Money {
	for i, m := range f.Months {
		if m == month && i < len(f.Totals) {
			return f.Totals[i]
		}
	}
	return core.Money{}
}
