package cli

import (
	"strings"
	"testing"

	"gigledger/internal/core"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "€0,00"},
		{5, "€0,05"},
		{123456, "€1.234,56"},
		{-1234567, "-€12.345,67"},
		{100000000, "€1.000.000,00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(core.Money{Cents: tt.cents}); got != tt.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(25); got != "25.0%" {
		t.Fatalf("FormatPercent = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Name", "Amount"},
		Rows:    [][]string{{"Rent", "€3.000,00"}, {separator}, {"Total", "€3.000,00"}},
	})
	if strings.Count(out, "\n") != 7 {
		t.Errorf("expected 7 lines, got:\n%s", out)
	}
	if !strings.Contains(out, "Rent") || !strings.Contains(out, "╰") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if RenderTable(Table{}) != "" {
		t.Errorf("empty table must render nothing")
	}
}
