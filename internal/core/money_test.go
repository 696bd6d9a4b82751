package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", -100, true},
		{"-12.346", -1235, true},
		{"+3.5", 350, true},
		{".5", 50, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"-", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyHelpers(t *testing.T) {
	if got := FromFloat(12.346).Cents; got != 1235 {
		t.Fatalf("FromFloat(12.346) = %d, want 1235", got)
	}
	if got := FromFloat(-0.5).Cents; got != -50 {
		t.Fatalf("FromFloat(-0.5) = %d, want -50", got)
	}
	if got := (Money{Cents: -1205}).String(); got != "-12.05" {
		t.Fatalf("String() = %q, want -12.05", got)
	}
	if got := (Money{Cents: 300000}).Float(); got != 3000 {
		t.Fatalf("Float() = %v, want 3000", got)
	}
	if (Money{Cents: -7}).Abs().Cents != 7 {
		t.Fatalf("Abs failed")
	}
}
