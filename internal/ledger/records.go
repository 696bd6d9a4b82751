package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gigledger/internal/core"
)

// Wire representations shared by the JSON seed file and the HTTP API.
// Amounts are decimal numbers in currency units, dates are YYYY-MM-DD.
type (
	ExpenseRecord struct {
		ID            string      `json:"id,omitempty"`
		Name          string      `json:"name"`
		MonthlyAmount json.Number `json:"monthlyAmount"`
		Category      string      `json:"category,omitempty"`
		StartDate     string      `json:"startDate"`
		EndDate       string      `json:"endDate,omitempty"`
		IsActive      bool        `json:"isActive"`
		IsEssential   bool        `json:"isEssential"`
		Notes         string      `json:"notes,omitempty"`
	}

	InstanceRecord struct {
		ID                       string      `json:"id,omitempty"`
		SourceRecurringExpenseID string      `json:"sourceRecurringExpenseId"`
		MonthKey                 string      `json:"monthKey"`
		Amount                   json.Number `json:"amount"`
		Notes                    string      `json:"notes,omitempty"`
	}

	GigRecord struct {
		ID             string      `json:"id,omitempty"`
		Name           string      `json:"name"`
		SupplierName   string      `json:"supplierName,omitempty"`
		PaymentAmount  json.Number `json:"paymentAmount"`
		EventDate      string      `json:"eventDate"`
		PaymentDueDate string      `json:"paymentDueDate"`
		Status         string      `json:"status"`
		PackageID      string      `json:"packageId,omitempty"`
		UsageType      string      `json:"usageType,omitempty"`
		Duration       float64     `json:"duration,omitempty"`
		InvoiceNumber  string      `json:"invoiceNumber,omitempty"`
		Notes          string      `json:"notes,omitempty"`
	}

	PackageRecord struct {
		ID           string      `json:"id,omitempty"`
		Name         string      `json:"name"`
		ClientName   string      `json:"clientName,omitempty"`
		TotalPrice   json.Number `json:"totalPrice"`
		BillingDate  string      `json:"billingDate,omitempty"`
		Status       string      `json:"status"`
		MaxWorkshops int         `json:"maxWorkshops,omitempty"`
		MaxHours     float64     `json:"maxHours,omitempty"`
		Notes        string      `json:"notes,omitempty"`
	}

	// Seed is the layout of a JSON seed file.
	Seed struct {
		Expenses  []ExpenseRecord  `json:"recurringExpenses"`
		Instances []InstanceRecord `json:"monthlyExpenseInstances"`
		Gigs      []GigRecord      `json:"gigs"`
		Packages  []PackageRecord  `json:"packages"`
	}
)

func parseAmount(n json.Number) (core.Money, error) {
	if n == "" {
		return core.Money{}, nil
	}
	cents, err := core.ParseDecimalToCents(string(n))
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func amountNumber(m core.Money) json.Number {
	return json.Number(m.String())
}

func (r ExpenseRecord) Expense() (core.RecurringExpense, error) {
	amount, err := parseAmount(r.MonthlyAmount)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("parse monthly amount: %w", err)
	}
	start, err := core.ParseDate(r.StartDate)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("parse start date: %w", err)
	}
	end, err := core.ParseOptionalDate(r.EndDate)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("parse end date: %w", err)
	}
	return core.RecurringExpense{
		ID:            r.ID,
		Name:          strings.TrimSpace(r.Name),
		MonthlyAmount: amount,
		Category:      strings.TrimSpace(r.Category),
		StartDate:     start,
		EndDate:       end,
		IsActive:      r.IsActive,
		IsEssential:   r.IsEssential,
		Notes:         r.Notes,
	}, nil
}

func FromExpense(e core.RecurringExpense) ExpenseRecord {
	return ExpenseRecord{
		ID:            e.ID,
		Name:          e.Name,
		MonthlyAmount: amountNumber(e.MonthlyAmount),
		Category:      e.Category,
		StartDate:     e.StartDate.String(),
		EndDate:       e.EndDate.String(),
		IsActive:      e.IsActive,
		IsEssential:   e.IsEssential,
		Notes:         e.Notes,
	}
}

func (r InstanceRecord) Instance() (core.MonthlyExpenseInstance, error) {
	month, err := core.ParseMonthKey(r.MonthKey)
	if err != nil {
		return core.MonthlyExpenseInstance{}, err
	}
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return core.MonthlyExpenseInstance{}, fmt.Errorf("parse amount: %w", err)
	}
	return core.MonthlyExpenseInstance{
		ID:                       r.ID,
		SourceRecurringExpenseID: r.SourceRecurringExpenseID,
		MonthKey:                 month,
		Amount:                   amount,
		IsOneTime:                true,
		Notes:                    r.Notes,
	}, nil
}

func FromInstance(i core.MonthlyExpenseInstance) InstanceRecord {
	return InstanceRecord{
		ID:                       i.ID,
		SourceRecurringExpenseID: i.SourceRecurringExpenseID,
		MonthKey:                 i.MonthKey.String(),
		Amount:                   amountNumber(i.Amount),
		Notes:                    i.Notes,
	}
}

func (r GigRecord) Gig() (core.Gig, error) {
	amount, err := parseAmount(r.PaymentAmount)
	if err != nil {
		return core.Gig{}, fmt.Errorf("parse payment amount: %w", err)
	}
	event, err := core.ParseDate(r.EventDate)
	if err != nil {
		return core.Gig{}, fmt.Errorf("parse event date: %w", err)
	}
	due, err := core.ParseDate(r.PaymentDueDate)
	if err != nil {
		return core.Gig{}, fmt.Errorf("parse payment due date: %w", err)
	}
	status, err := core.ParseStatus(r.Status)
	if err != nil {
		return core.Gig{}, fmt.Errorf("parse status: %w", err)
	}
	return core.Gig{
		ID:             r.ID,
		Name:           strings.TrimSpace(r.Name),
		SupplierName:   strings.TrimSpace(r.SupplierName),
		PaymentAmount:  amount,
		EventDate:      event,
		PaymentDueDate: due,
		Status:         status,
		PackageID:      r.PackageID,
		UsageType:      core.UsageType(strings.ToLower(strings.TrimSpace(r.UsageType))),
		Duration:       r.Duration,
		InvoiceNumber:  r.InvoiceNumber,
		Notes:          r.Notes,
	}, nil
}

func FromGig(g core.Gig) GigRecord {
	return GigRecord{
		ID:             g.ID,
		Name:           g.Name,
		SupplierName:   g.SupplierName,
		PaymentAmount:  amountNumber(g.PaymentAmount),
		EventDate:      g.EventDate.String(),
		PaymentDueDate: g.PaymentDueDate.String(),
		Status:         string(g.Status),
		PackageID:      g.PackageID,
		UsageType:      string(g.UsageType),
		Duration:       g.Duration,
		InvoiceNumber:  g.InvoiceNumber,
		Notes:          g.Notes,
	}
}

func (r PackageRecord) Package() (core.Package, error) {
	price, err := parseAmount(r.TotalPrice)
	if err != nil {
		return core.Package{}, fmt.Errorf("parse total price: %w", err)
	}
	billing, err := core.ParseOptionalDate(r.BillingDate)
	if err != nil {
		return core.Package{}, fmt.Errorf("parse billing date: %w", err)
	}
	status, err := core.ParseStatus(r.Status)
	if err != nil {
		return core.Package{}, fmt.Errorf("parse status: %w", err)
	}
	return core.Package{
		ID:           r.ID,
		Name:         strings.TrimSpace(r.Name),
		ClientName:   strings.TrimSpace(r.ClientName),
		TotalPrice:   price,
		BillingDate:  billing,
		Status:       status,
		MaxWorkshops: r.MaxWorkshops,
		MaxHours:     r.MaxHours,
		Notes:        r.Notes,
	}, nil
}

func FromPackage(p core.Package) PackageRecord {
	return PackageRecord{
		ID:           p.ID,
		Name:         p.Name,
		ClientName:   p.ClientName,
		TotalPrice:   amountNumber(p.TotalPrice),
		BillingDate:  p.BillingDate.String(),
		Status:       string(p.Status),
		MaxWorkshops: p.MaxWorkshops,
		MaxHours:     p.MaxHours,
		Notes:        p.Notes,
	}
}

// Snapshot converts the seed into engine records, failing on the first bad one.
func (s Seed) Snapshot() (core.Snapshot, error) {
	var out core.Snapshot
	for i, r := range s.Expenses {
		e, err := r.Expense()
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("recurring expense %d: %w", i, err)
		}
		out.Expenses = append(out.Expenses, e)
	}
	for i, r := range s.Instances {
		inst, err := r.Instance()
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("monthly expense instance %d: %w", i, err)
		}
		out.Instances = append(out.Instances, inst)
	}
	for i, r := range s.Gigs {
		g, err := r.Gig()
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("gig %d: %w", i, err)
		}
		out.Gigs = append(out.Gigs, g)
	}
	for i, r := range s.Packages {
		p, err := r.Package()
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("package %d: %w", i, err)
		}
		out.Packages = append(out.Packages, p)
	}
	return out, nil
}

// LoadSeed reads a JSON seed file.
func LoadSeed(path string) (core.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode seed file: %w", err)
	}
	return seed.Snapshot()
}
