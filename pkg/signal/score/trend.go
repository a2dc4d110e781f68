package score

// Trend labels for period-over-period score comparison.
const (
	TrendNew    = "new"
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// trendDeadband is the percent-change band treated as noise rather
// than movement.
const trendDeadband = 10.0

// Trend compares the current score against the previous period's. A nil
// or zero previous score yields ("new", 0); absence of history is not
// distinguishable from a zero baseline. Within the deadband the label
// is "stable" but the computed percent change is still returned.
func Trend(prev *float64, current float64) (string, float64) {
	if prev == nil || *prev == 0 {
		return TrendNew, 0
	}
	pct := (current - *prev) / *prev * 100
	switch {
	case pct > trendDeadband:
		return TrendUp, pct
	case pct < -trendDeadband:
		return TrendDown, pct
	default:
		return TrendStable, pct
	}
}
