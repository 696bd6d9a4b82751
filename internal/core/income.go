package core

// IncomeBreakdown splits a month's income by revenue source.
type IncomeBreakdown struct {
	Month    MonthKey
	Gigs     Money // independent gigs only
	Packages Money
	Total    Money
}

// IsIndependent reports whether the gig earns income on its own. Gigs linked
// to a package are billed through the package and never counted here.
func IsIndependent(g Gig) bool {
	return g.PackageID == ""
}

// GigDueIn reports whether an independent gig's payment is due in month.
func GigDueIn(g Gig, month MonthKey) bool {
	return IsIndependent(g) && month.Contains(g.PaymentDueDate)
}

// PackageBilledIn reports whether a package is billed in month. Unbilled
// packages belong to no month.
func PackageBilledIn(p Package, month MonthKey) bool {
	return month.Contains(p.BillingDate)
}

// ReconcileIncome sums independent gigs due in month and packages billed in
// month, regardless of status.
func ReconcileIncome(gigs []Gig, packages []Package, month MonthKey) IncomeBreakdown {
	b := IncomeBreakdown{Month: month}
	for _, g := range gigs {
		if GigDueIn(g, month) {
			b.Gigs = b.Gigs.Add(g.PaymentAmount)
		}
	}
	for _, p := range packages {
		if PackageBilledIn(p, month) {
			b.Packages = b.Packages.Add(p.TotalPrice)
		}
	}
	b.Total = b.Gigs.Add(b.Packages)
	return b
}

// MonthIncome is the total of ReconcileIncome.
func MonthIncome(gigs []Gig, packages []Package, month MonthKey) Money {
	return ReconcileIncome(gigs, packages, month).Total
}
