package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"gigledger/internal/sheets"
)

var ErrNothingExported = errors.New("no forecast exported yet")

// Store keeps the last exported forecast in memory. It stands in for the
// spreadsheet when export is disabled and in tests.
type Store struct {
	mu       sync.Mutex
	forecast *sheets.Forecast
	writes   int
}

var (
	_ sheets.ForecastWriter = (*Store)(nil)
	_ sheets.ForecastReader = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// WriteForecast replaces the stored forecast with a copy of f.
func (s *Store) WriteForecast(_ context.Context, f sheets.Forecast) error {
	c := clone(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forecast = &c
	s.writes++
	return nil
}

func (s *Store) ReadForecast(_ context.Context) (sheets.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forecast == nil {
		return sheets.Forecast{}, ErrNothingExported
	}
	return clone(*s.forecast), nil
}

// Writes returns how many forecasts were exported.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func clone(f sheets.Forecast) sheets.Forecast {
	out := sheets.Forecast{
		Months: append(f.Months[:0:0], f.Months...),
		Totals: append(f.Totals[:0:0], f.Totals...),
		Rows:   make([]sheets.ForecastRow, len(f.Rows)),
	}
	for i, r := range f.Rows {
		r.Cells = maps.Clone(r.Cells)
		out.Rows[i] = r
	}
	return out
}
