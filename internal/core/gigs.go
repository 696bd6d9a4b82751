package core

import (
	"strings"
	"time"
)

// GigFilter selects gigs by payment state.
type GigFilter string

const (
	GigFilterAll     GigFilter = "All"
	GigFilterPending GigFilter = "Pending"
	GigFilterPaid    GigFilter = "Paid"
	GigFilterOverdue GigFilter = "Overdue"
)

// ParseGigFilter maps a case-insensitive name to a filter; unknown names mean All.
func ParseGigFilter(s string) GigFilter {
	for _, f := range []GigFilter{GigFilterPending, GigFilterPaid, GigFilterOverdue} {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f
		}
	}
	return GigFilterAll
}

// IsOverdue reports whether a pending gig's due date is strictly before
// today's calendar date. A gig due today is not overdue.
func IsOverdue(g Gig, now time.Time) bool {
	return isOverdueOn(g, DateOf(now))
}

func isOverdueOn(g Gig, today Date) bool {
	return g.Status == Pending && !g.PaymentDueDate.IsEmpty() && g.PaymentDueDate.Before(today)
}

// FilterGigs returns the gigs matching f. Pending excludes overdue gigs so
// the two views do not overlap.
func FilterGigs(gigs []Gig, f GigFilter, now time.Time) []Gig {
	today := DateOf(now)
	out := make([]Gig, 0, len(gigs))
	for _, g := range gigs {
		overdue := isOverdueOn(g, today)
		var keep bool
		switch f {
		case GigFilterPaid:
			keep = g.Status == Paid
		case GigFilterPending:
			keep = g.Status == Pending && !overdue
		case GigFilterOverdue:
			keep = overdue
		default:
			keep = true
		}
		if keep {
			out = append(out, g)
		}
	}
	return out
}

// LinkedGigs returns the gigs billed through packageID.
func LinkedGigs(gigs []Gig, packageID string) []Gig {
	var out []Gig
	for _, g := range gigs {
		if packageID != "" && g.PackageID == packageID {
			out = append(out, g)
		}
	}
	return out
}
