package ledger

import (
	"encoding/json"
	"errors"
	"testing"

	"gigledger/internal/core"
)

func TestExpenseRecordRoundTrip(t *testing.T) {
	var r ExpenseRecord
	body := `{"name":" Rent ","monthlyAmount":3000.5,"category":"Housing","startDate":"2024-03-15","endDate":"2024-06-10","isActive":true}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatal(err)
	}
	e, err := r.Expense()
	if err != nil {
		t.Fatalf("Expense() error = %v", err)
	}
	if e.Name != "Rent" || e.MonthlyAmount.Cents != 300050 || core.MonthKeyOf(e.EndDate) != "2024-06" {
		t.Fatalf("unexpected expense %+v", e)
	}
	back := FromExpense(e)
	if back.MonthlyAmount != "3000.50" || back.StartDate != "2024-03-15" || back.EndDate != "2024-06-10" {
		t.Fatalf("unexpected record %+v", back)
	}
}

func TestRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		conv func() error
		want error
	}{
		{"bad start date", func() error { _, err := ExpenseRecord{Name: "x", StartDate: "2024-3-1"}.Expense(); return err }, core.ErrInvalidDate},
		{"bad amount", func() error { _, err := GigRecord{PaymentAmount: "1e3"}.Gig(); return err }, core.ErrInvalidAmount},
		{"bad month key", func() error { _, err := InstanceRecord{MonthKey: "2024-6"}.Instance(); return err }, core.ErrInvalidMonthKey},
		{"bad billing date", func() error { _, err := PackageRecord{BillingDate: "soon"}.Package(); return err }, core.ErrInvalidDate},
		{"misspelled gig status", func() error {
			_, err := GigRecord{PaymentAmount: "1", EventDate: "2024-05-01", PaymentDueDate: "2024-05-02", Status: "paied"}.Gig()
			return err
		}, core.ErrInvalidStatus},
		{"unknown package status", func() error { _, err := PackageRecord{TotalPrice: "1", Status: "invoiced"}.Package(); return err }, core.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.conv(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPackageRecordOptionalBilling(t *testing.T) {
	p, err := PackageRecord{Name: "Retainer", TotalPrice: "2000", Status: "paid"}.Package()
	if err != nil {
		t.Fatal(err)
	}
	if !p.BillingDate.IsEmpty() || p.Status != core.Paid || p.TotalPrice.Cents != 200000 {
		t.Fatalf("unexpected package %+v", p)
	}
	if FromPackage(p).BillingDate != "" {
		t.Fatal("unbilled package must serialize without a billing date")
	}
}
