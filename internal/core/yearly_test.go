package core

import "testing"

func TestYearlyIncome(t *testing.T) {
	gigs := []Gig{
		{ID: "a", PaymentAmount: Money{Cents: 1000}, EventDate: NewDate(2024, 1, 20), PaymentDueDate: NewDate(2024, 2, 5), Status: Paid},
		{ID: "b", PaymentAmount: Money{Cents: 2000}, EventDate: NewDate(2024, 2, 1), PaymentDueDate: NewDate(2024, 2, 28), Status: Pending},
		{ID: "c", PaymentAmount: Money{Cents: 4000}, EventDate: NewDate(2024, 2, 3), PaymentDueDate: NewDate(2024, 2, 10), Status: Paid, PackageID: "P"},
		{ID: "d", PaymentAmount: Money{Cents: 8000}, EventDate: NewDate(2023, 12, 30), PaymentDueDate: NewDate(2024, 1, 10), Status: Paid},
	}
	packages := []Package{
		{ID: "P", TotalPrice: Money{Cents: 50000}, BillingDate: NewDate(2024, 2, 1), Status: Paid},
		{ID: "Q", TotalPrice: Money{Cents: 70000}, Status: Pending},
	}

	points := YearlyIncome(gigs, packages, 2024)
	if len(points) != 12 || points[0].Month != "2024-01" || points[11].Month != "2024-12" {
		t.Fatalf("unexpected months")
	}
	if points[0].Paid.Cents != 8000 || points[0].EventCount != 1 {
		t.Errorf("January = %+v", points[0])
	}
	feb := points[1]
	if feb.Paid.Cents != 1000+50000 || feb.Expected.Cents != 2000 || feb.EventCount != 1 {
		t.Errorf("February = %+v", feb)
	}
}

func TestIncomeBySource(t *testing.T) {
	gigs := []Gig{
		{SupplierName: "Acme", PaymentAmount: Money{Cents: 3000}, PaymentDueDate: NewDate(2024, 3, 1), Status: Paid},
		{SupplierName: "Acme", PaymentAmount: Money{Cents: 2000}, PaymentDueDate: NewDate(2024, 4, 1), Status: Paid},
		{SupplierName: "Beta", PaymentAmount: Money{Cents: 9000}, PaymentDueDate: NewDate(2024, 4, 1), Status: Pending},
		{SupplierName: "", PaymentAmount: Money{Cents: 100}, PaymentDueDate: NewDate(2024, 4, 1), Status: Paid},
	}
	packages := []Package{
		{ClientName: "Zed", TotalPrice: Money{Cents: 5000}, BillingDate: NewDate(2024, 6, 1), Status: Paid},
		{ClientName: "Old", TotalPrice: Money{Cents: 9999}, BillingDate: NewDate(2023, 6, 1), Status: Paid},
	}

	got := IncomeBySource(gigs, packages, 2024)
	want := []SourceAmount{
		{"Acme", Money{Cents: 5000}},
		{"Zed", Money{Cents: 5000}},
		{UnknownSourceLabel, Money{Cents: 100}},
	}
	if len(got) != len(want) {
		t.Fatalf("IncomeBySource = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
