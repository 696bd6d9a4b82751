package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Pending Status = "Pending"
	Paid    Status = "Paid"
)

const (
	UsageWorkshop   UsageType = "workshop"
	UsageConsulting UsageType = "consulting"
)

type (
	Status    string
	UsageType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// RecurringExpense is a standing monthly obligation.
	RecurringExpense struct {
		ID            string
		Name          string
		MonthlyAmount Money // zero or negative for credits
		Category      string
		StartDate     Date // inclusive
		EndDate       Date // inclusive, empty means still running
		IsActive      bool
		IsEssential   bool
		Notes         string
	}

	// MonthlyExpenseInstance overrides one RecurringExpense for one month.
	MonthlyExpenseInstance struct {
		ID                       string // empty until persisted
		SourceRecurringExpenseID string
		MonthKey                 MonthKey
		Amount                   Money
		IsOneTime                bool
		Notes                    string
	}

	// Gig is a single income-generating event.
	Gig struct {
		ID             string
		Name           string
		SupplierName   string
		PaymentAmount  Money
		EventDate      Date
		PaymentDueDate Date
		Status         Status
		PackageID      string // billed through the package when set
		UsageType      UsageType
		Duration       float64 // hours
		InvoiceNumber  string
		Notes          string
		CreatedAt      time.Time
	}

	// Package is a bundled, multi-use billing arrangement with a client.
	Package struct {
		ID           string
		Name         string
		ClientName   string
		TotalPrice   Money
		BillingDate  Date // empty means not billed yet
		Status       Status
		MaxWorkshops int
		MaxHours     float64
		Notes        string
	}

	// Snapshot is one consistent read of every collection the engine consumes.
	Snapshot struct {
		Expenses  []RecurringExpense
		Instances []MonthlyExpenseInstance
		Gigs      []Gig
		Packages  []Package
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyID          = errors.New("empty id")
	ErrExpenseNotFound  = errors.New("recurring expense not found")
	ErrGigNotFound      = errors.New("gig not found")
	ErrPackageNotFound  = errors.New("package not found")
	ErrInstanceNotFound = errors.New("monthly expense instance not found")
	ErrInvalidRecord    = errors.New("invalid record")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidRecord)
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" when empty.
func (d Date) String() string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format(dateLayout)
}

// Before reports whether d is on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

func (s Status) Valid() bool {
	return s == Pending || s == Paid
}

// ParseStatus accepts the two statuses case-insensitively. An empty string
// is Pending; anything else is ErrInvalidStatus.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "", strings.EqualFold(s, string(Pending)):
		return Pending, nil
	case strings.EqualFold(s, string(Paid)):
		return Paid, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (e RecurringExpense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if err := e.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if !e.EndDate.IsEmpty() {
		if err := e.EndDate.Validate(); err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		if e.EndDate.Before(e.StartDate) {
			return fmt.Errorf("%w: end date must not be before start date", ErrInvalidRecord)
		}
	}
	return nil
}

func (i MonthlyExpenseInstance) Validate() error {
	if strings.TrimSpace(i.SourceRecurringExpenseID) == "" {
		return ErrEmptyID
	}
	if _, err := ParseMonthKey(string(i.MonthKey)); err != nil {
		return err
	}
	return nil
}

func (g Gig) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.EventDate.Validate(); err != nil {
		return fmt.Errorf("invalid event date: %w", err)
	}
	if err := g.PaymentDueDate.Validate(); err != nil {
		return fmt.Errorf("invalid payment due date: %w", err)
	}
	if !g.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (p Package) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !p.BillingDate.IsEmpty() {
		if err := p.BillingDate.Validate(); err != nil {
			return fmt.Errorf("invalid billing date: %w", err)
		}
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
