package google

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"gigledger/internal/core"
	ports "gigledger/internal/sheets"
)

// parseForecast converts a values matrix (as returned by Sheets API) back
// into a forecast table. Month columns are the headers that parse as month
// keys; blank cells are absent.
func parseForecast(values [][]interface{}) (ports.Forecast, error) {
	if len(values) == 0 {
		return ports.Forecast{}, nil
	}
	headers := toStrings(values[0])
	colID := indexOf(headers, headerID)
	colName := indexOf(headers, headerName)
	colCategory := indexOf(headers, headerCategory)
	if colID == -1 || colName == -1 {
		return ports.Forecast{}, fmt.Errorf("unexpected forecast header: got headers=%v", headers)
	}

	var f ports.Forecast
	monthCols := map[int]core.MonthKey{}
	for i, h := range headers {
		if m, err := core.ParseMonthKey(h); err == nil {
			monthCols[i] = m
			f.Months = append(f.Months, m)
		}
	}

	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		id := safeGet(row, colID)
		name := safeGet(row, colName)

		if id == "" && strings.EqualFold(name, totalLabel) {
			f.Totals = make([]core.Money, len(f.Months))
			for j, col := range slices.Sorted(maps.Keys(monthCols)) {
				if cents, ok := parseCents(safeGet(row, col)); ok {
					f.Totals[j] = core.Money{Cents: cents}
				}
			}
			continue
		}
		if id == "" {
			continue
		}

		r := ports.ForecastRow{
			ExpenseID: id,
			Name:      name,
			Category:  safeGet(row, colCategory),
			Cells:     make(map[core.MonthKey]core.Money),
		}
		for col, m := range monthCols {
			raw := safeGet(row, col)
			if raw == "" {
				continue
			}
			cents, ok := parseCents(raw)
			if !ok {
				return ports.Forecast{}, fmt.Errorf("row %d, %s: invalid amount %q", i+1, m, raw)
			}
			r.Cells[m] = core.Money{Cents: cents}
		}
		f.Rows = append(f.Rows, r)
	}
	return f, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func parseCents(s string) (int64, bool) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return 0, false
	}
	return cents, true
}
