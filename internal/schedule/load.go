package schedule

// Load severity levels, ordered from lightest to heaviest.
const (
	SeverityLow = iota
	SeverityMedium
	SeverityHigh
)

// Load is a coarse workload summary for one day's window, used for
// presentation only.
type Load struct {
	Label    string
	Severity int
}

// Busy-minutes thresholds for the load tiers. Boundaries are inclusive at
// the lower bound of each tier: exactly 300 minutes is high load.
const (
	highLoadMinutes   = 300
	mediumLoadMinutes = 180
)

// ClassifyLoad maps total busy minutes within a working window to a
// workload tier.
func ClassifyLoad(totalBusyMinutes int) Load {
	switch {
	case totalBusyMinutes >= highLoadMinutes:
		return Load{Label: "high", Severity: SeverityHigh}
	case totalBusyMinutes >= mediumLoadMinutes:
		return Load{Label: "medium", Severity: SeverityMedium}
	default:
		return Load{Label: "low", Severity: SeverityLow}
	}
}
