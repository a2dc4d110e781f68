package score

import (
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/config"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store"
)

// Velocity trend labels.
const (
	VelocityRising  = "rising"
	VelocityFalling = "falling"
	VelocityStable  = "stable"
	VelocityNew     = "new"
	VelocityNoData  = "no_data"
)

// VelocitySentinel stands in for an undefined rate when a term has no
// older-half baseline but does have recent activity.
const VelocitySentinel = 999

// VelocityReport is the half-window rate-of-change view of one term.
// It is independent of the period Scorer trend and uses raw mention
// counts, not scores.
type VelocityReport struct {
	Term        string
	RecentCount int
	OlderCount  int
	Velocity    float64
	Trend       string
}

// Velocity splits the occurrence history at the midpoint of the
// lookback window ending at now and compares the two halves.
func Velocity(term string, history []store.Occurrence, now time.Time, v config.Velocity) VelocityReport {
	rep := VelocityReport{Term: term, Trend: VelocityNoData}
	if len(history) == 0 {
		return rep
	}

	midpoint := now.AddDate(0, 0, -v.LookbackDays/2)
	for _, occ := range history {
		if occ.Date.Before(midpoint) {
			rep.OlderCount += occ.Count
		} else {
			rep.RecentCount += occ.Count
		}
	}

	switch {
	case rep.OlderCount == 0 && rep.RecentCount > 0:
		rep.Velocity = VelocitySentinel
		rep.Trend = VelocityNew
	case rep.OlderCount == 0:
		rep.Velocity = 0
		rep.Trend = VelocityNoData
	default:
		rep.Velocity = float64(rep.RecentCount-rep.OlderCount) / float64(rep.OlderCount)
		switch {
		case rep.Velocity > v.Rising:
			rep.Trend = VelocityRising
		case rep.Velocity < v.Falling:
			rep.Trend = VelocityFalling
		default:
			rep.Trend = VelocityStable
		}
	}
	return rep
}
