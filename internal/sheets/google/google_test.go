package google

import (
	"context"
	"strings"
	"testing"

	"gigledger/internal/core"
	ports "gigledger/internal/sheets"
)

func sampleForecast() ports.Forecast {
	return ports.Forecast{
		Months: []core.MonthKey{"2024-05", "2024-06"},
		Rows: []ports.ForecastRow{
			{ExpenseID: "rent", Name: "Rent", Category: "Housing", Cells: map[core.MonthKey]core.Money{
				"2024-05": {Cents: 300000},
				"2024-06": {Cents: 350000},
			}},
			{ExpenseID: "gym", Name: "Gym", Cells: map[core.MonthKey]core.Money{
				"2024-05": {Cents: 0},
			}},
			{ExpenseID: "refund", Name: "Refund", Category: "Credits", Cells: map[core.MonthKey]core.Money{
				"2024-06": {Cents: -1250},
			}},
		},
		Totals: []core.Money{{Cents: 300000}, {Cents: 348750}},
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing spreadsheet id" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet", CredentialsFile: t.TempDir() + "/missing.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_UninitializedService(t *testing.T) {
	c := &Client{spreadsheetID: "test", forecastSheet: "Forecast"}
	if err := c.WriteForecast(context.Background(), sampleForecast()); err == nil {
		t.Error("expected error with nil service")
	}
	if _, err := c.ReadForecast(context.Background()); err == nil {
		t.Error("expected error with nil service")
	}
}

func TestForecastValues(t *testing.T) {
	values := forecastValues(sampleForecast())

	if len(values) != 5 {
		t.Fatalf("rows = %d, want header + 3 expenses + totals", len(values))
	}
	header := toStrings(values[0])
	if strings.Join(header, "|") != "Expense ID|Expense|Category|2024-05|2024-06" {
		t.Errorf("header = %v", header)
	}
	if values[1][3] != 3000.0 || values[1][4] != 3500.0 {
		t.Errorf("rent row = %v", values[1])
	}
	if values[2][3] != 0.0 {
		t.Errorf("zero cell must be written as 0, got %v", values[2][3])
	}
	if values[2][4] != "" {
		t.Errorf("absent cell must be blank, got %v", values[2][4])
	}
	if values[4][1] != totalLabel || values[4][4] != 3487.5 {
		t.Errorf("totals row = %v", values[4])
	}
}

func TestParseForecast_RoundTrip(t *testing.T) {
	want := sampleForecast()
	got, err := parseForecast(forecastValues(want))
	if err != nil {
		t.Fatalf("parseForecast: %v", err)
	}

	if len(got.Months) != 2 || got.Months[1] != "2024-06" {
		t.Fatalf("months = %v", got.Months)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(got.Rows))
	}
	for i, r := range want.Rows {
		g := got.Rows[i]
		if g.ExpenseID != r.ExpenseID || g.Category != r.Category || len(g.Cells) != len(r.Cells) {
			t.Errorf("row %d = %+v, want %+v", i, g, r)
			continue
		}
		for m, amount := range r.Cells {
			if g.Cells[m] != amount {
				t.Errorf("row %s %s = %d, want %d", r.ExpenseID, m, g.Cells[m].Cents, amount.Cents)
			}
		}
	}
	if got.Totals[1].Cents != 348750 {
		t.Errorf("totals = %v", got.Totals)
	}
}

func TestParseForecast_Errors(t *testing.T) {
	tests := []struct {
		name    string
		values  [][]interface{}
		wantErr bool
	}{
		{"empty sheet", nil, false},
		{"missing id header", [][]interface{}{{"Name", "2024-01"}}, true},
		{"bad amount", [][]interface{}{
			{"Expense ID", "Expense", "Category", "2024-01"},
			{"rent", "Rent", "", "lots"},
		}, true},
		{"decimal comma", [][]interface{}{
			{"Expense ID", "Expense", "Category", "2024-01"},
			{"rent", "Rent", "", "12,50"},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseForecast(tt.values)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseForecast() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
