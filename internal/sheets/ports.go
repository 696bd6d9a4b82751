package sheets

import (
	"context"

	"gigledger/internal/core"
)

// Ports for outbound adapters.
type (
	// ForecastWriter replaces the exported forecast table.
	ForecastWriter interface {
		WriteForecast(ctx context.Context, f Forecast) error
	}

	// ForecastReader reads back the last exported forecast table.
	ForecastReader interface {
		ReadForecast(ctx context.Context) (Forecast, error)
	}
)

// Forecast is the expense grid laid out as a sheet: one column per month and
// one row per expense that applies to at least one of them.
type Forecast struct {
	Months []core.MonthKey
	Rows   []ForecastRow
	Totals []core.Money
}

// ForecastRow holds the resolved amounts of one expense. Months where the
// expense does not apply have no entry in Cells.
type ForecastRow struct {
	ExpenseID string
	Name      string
	Category  string
	Cells     map[core.MonthKey]core.Money
}
