package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

var (
	ErrInvalidMonthKey = errors.New("invalid month key: expected YYYY-MM")
	ErrInvalidDate     = errors.New("invalid date: expected YYYY-MM-DD")
)

// MonthKey is a canonical, zero-padded "YYYY-MM" key. The fixed width makes
// plain string comparison equivalent to chronological comparison.
type MonthKey string

// ParseMonthKey validates s and returns it as a MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	if len(s) != 7 || s[4] != '-' {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	for i, r := range s {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
		}
	}
	m, _ := strconv.Atoi(s[5:])
	if m < 1 || m > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return MonthKey(s), nil
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// ParseOptionalDate is ParseDate that maps "" to the empty Date.
func ParseOptionalDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	return ParseDate(s)
}

// NewMonthKey builds a key from a year and a 1-based month, normalizing
// out-of-range months the way time.Date does.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout))
}

// MonthKeyOf returns the month containing d. The empty Date has no month.
func MonthKeyOf(d Date) MonthKey {
	if d.IsEmpty() {
		return ""
	}
	return MonthKeyOfTime(d.Time)
}

func MonthKeyOfTime(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), t.Month())
}

// MonthKeyFromDateString returns the month of a YYYY-MM-DD string.
func MonthKeyFromDateString(s string) (MonthKey, error) {
	d, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return MonthKeyOf(d), nil
}

func (k MonthKey) String() string { return string(k) }

func (k MonthKey) IsZero() bool { return k == "" }

func (k MonthKey) Before(o MonthKey) bool { return k < o }

func (k MonthKey) After(o MonthKey) bool { return k > o }

// Compare returns -1, 0 or +1.
func (k MonthKey) Compare(o MonthKey) int {
	switch {
	case k < o:
		return -1
	case k > o:
		return 1
	}
	return 0
}

// Year returns the year part; zero for an invalid key.
func (k MonthKey) Year() int {
	if len(k) != 7 {
		return 0
	}
	y, _ := strconv.Atoi(string(k[:4]))
	return y
}

// Month returns the month part; zero for an invalid key.
func (k MonthKey) Month() time.Month {
	if len(k) != 7 {
		return 0
	}
	m, _ := strconv.Atoi(string(k[5:]))
	return time.Month(m)
}

// Time returns midnight UTC on the first day of the month.
func (k MonthKey) Time() time.Time {
	return time.Date(k.Year(), k.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances by n calendar months (n may be negative).
func (k MonthKey) AddMonths(n int) MonthKey {
	return NewMonthKey(k.Year(), k.Month()+time.Month(n))
}

// Contains reports whether d falls inside the month.
func (k MonthKey) Contains(d Date) bool {
	return !d.IsEmpty() && MonthKeyOf(d) == k
}

// MonthRange returns count consecutive keys starting at start.
func MonthRange(start MonthKey, count int) []MonthKey {
	if count <= 0 {
		return nil
	}
	keys := make([]MonthKey, count)
	for i := range keys {
		keys[i] = start.AddMonths(i)
	}
	return keys
}
