package core

// PackageUsage is how much of a package's quota its linked gigs consumed.
type PackageUsage struct {
	PackageID        string
	UsedWorkshops    int
	UsedHours        float64
	WorkshopProgress float64 // percent of MaxWorkshops, 0 without a quota
	HoursProgress    float64 // percent of MaxHours, 0 without a quota
}

// UsageOf counts workshop gigs and sums consulting hours linked to p.
// Quota tracking is informational and never touches income.
func UsageOf(p Package, gigs []Gig) PackageUsage {
	u := PackageUsage{PackageID: p.ID}
	for _, g := range LinkedGigs(gigs, p.ID) {
		switch g.UsageType {
		case UsageWorkshop:
			u.UsedWorkshops++
		case UsageConsulting:
			u.UsedHours += g.Duration
		}
	}
	if p.MaxWorkshops > 0 {
		u.WorkshopProgress = float64(u.UsedWorkshops) / float64(p.MaxWorkshops) * 100
	}
	if p.MaxHours > 0 {
		u.HoursProgress = u.UsedHours / p.MaxHours * 100
	}
	return u
}

// Unbilled returns the packages without a billing date.
func Unbilled(packages []Package) []Package {
	var out []Package
	for _, p := range packages {
		if p.BillingDate.IsEmpty() {
			out = append(out, p)
		}
	}
	return out
}
