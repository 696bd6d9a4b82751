package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateBeforeIgnoresTimeOfDay(t *testing.T) {
	d := NewDate(2024, 5, 15)
	sameDayLater := DateOf(time.Date(2024, 5, 15, 23, 59, 0, 0, time.UTC))
	if d.Before(sameDayLater) || sameDayLater.Before(d) {
		t.Fatalf("same calendar day must not compare as before")
	}
	if !d.Before(NewDate(2024, 5, 16)) {
		t.Fatalf("expected %s before 2024-05-16", d)
	}
}

func TestRecurringExpenseValidate(t *testing.T) {
	good := RecurringExpense{ID: "e1", Name: "Rent", StartDate: NewDate(2024, 1, 1), IsActive: true}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []RecurringExpense{
		{Name: "Rent", StartDate: NewDate(2024, 1, 1)},
		{ID: "e1", StartDate: NewDate(2024, 1, 1)},
		{ID: "e1", Name: "Rent"},
		{ID: "e1", Name: "Rent", StartDate: NewDate(2024, 3, 1), EndDate: NewDate(2024, 2, 1)},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGigAndPackageValidate(t *testing.T) {
	g := Gig{ID: "g1", Name: "Workshop", EventDate: NewDate(2024, 5, 1), PaymentDueDate: NewDate(2024, 5, 31), Status: Pending}
	if err := g.Validate(); err != nil {
		t.Fatalf("gig: expected ok, got %v", err)
	}
	g.Status = "Late"
	if err := g.Validate(); err != ErrInvalidStatus {
		t.Fatalf("gig: expected ErrInvalidStatus, got %v", err)
	}

	p := Package{ID: "p1", Name: "Retainer", Status: Paid}
	if err := p.Validate(); err != nil {
		t.Fatalf("unbilled package: expected ok, got %v", err)
	}
	p.Name = " "
	if err := p.Validate(); err != ErrEmptyName {
		t.Fatalf("package: expected ErrEmptyName, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		err  error
	}{
		{"paid", Paid, nil},
		{" Paid ", Paid, nil},
		{"PENDING", Pending, nil},
		{"", Pending, nil},
		{"paied", "", ErrInvalidStatus},
		{"whatever", "", ErrInvalidStatus},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if !errors.Is(err, tt.err) || got != tt.want {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, err, tt.want, tt.err)
		}
	}
}
