// Package score computes term significance from aggregated mention
// counts. The primary Scorer weighs tiered source counts with bonuses
// for cross-tier validation, novelty and upward trend; the velocity and
// emergence views are secondary exploratory rankings.
package score

import (
	"math"
	"sort"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/config"
)

// Input carries one term's aggregated counts for a scoring pass.
type Input struct {
	TermID       int64
	Term         string
	FirstSeen    time.Time
	Tier1Sources []string // distinct tier-1 source names
	Tier1Count   int      // total tier-1 mentions
	Tier2Count   int
	Tier3Count   int
	Tier3Sources []string
	URLs         []string
}

// ScoredTerm is the scored view of a term for one period.
type ScoredTerm struct {
	TermID        int64
	Term          string
	Score         float64
	Tier1Mentions int
	Tier2Mentions int
	Tier3Mentions int
	Tier1Sources  []string
	Tier3Sources  []string
	FirstSeen     time.Time
	IsCrossTier   bool
	IsNew         bool
	Trend         string
	PercentChange float64
	URLs          []string
}

// Scorer applies the configured weights to aggregated counts.
type Scorer struct {
	w config.Weights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(w config.Weights) *Scorer {
	return &Scorer{w: w}
}

// Score computes a term's score for the period starting at periodStart.
// prev is the most recent earlier period score; prevOK reports whether
// one exists. The trend bonus is applied after the trend is derived
// from the score without it, so the bonus reflects the score's own
// direction rather than inflating it first.
func (s *Scorer) Score(in Input, prev float64, prevOK bool, periodStart time.Time) ScoredTerm {
	raw := float64(len(distinct(in.Tier1Sources))) * s.w.Tier1
	raw += float64(in.Tier2Count) * s.w.Tier2

	tier3 := in.Tier3Count
	if tier3 > s.w.Tier3Cap {
		tier3 = s.w.Tier3Cap
	}
	raw += float64(tier3) * s.w.Tier3

	crossTier := in.Tier1Count > 0 && in.Tier3Count > 0
	if crossTier {
		raw += s.w.CrossTierBonus
	}

	isNew := !in.FirstSeen.IsZero() && !in.FirstSeen.Before(periodStart)
	if isNew {
		raw += s.w.NewTermBonus
	}

	var prevPtr *float64
	if prevOK {
		prevPtr = &prev
	}
	trend, pct := Trend(prevPtr, raw)
	if trend == TrendUp && pct > 0 {
		raw += pct * s.w.TrendMultiplier
	}

	label := trend
	if isNew {
		label = TrendNew
	}

	return ScoredTerm{
		TermID:        in.TermID,
		Term:          in.Term,
		Score:         round2(raw),
		Tier1Mentions: in.Tier1Count,
		Tier2Mentions: in.Tier2Count,
		Tier3Mentions: in.Tier3Count,
		Tier1Sources:  distinct(in.Tier1Sources),
		Tier3Sources:  distinct(in.Tier3Sources),
		FirstSeen:     in.FirstSeen,
		IsCrossTier:   crossTier,
		IsNew:         isNew,
		Trend:         label,
		PercentChange: round1(pct),
		URLs:          in.URLs,
	}
}

// SortByScore orders scored terms by descending score, breaking ties
// alphabetically so output is stable across runs.
func SortByScore(terms []ScoredTerm) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Score != terms[j].Score {
			return terms[i].Score > terms[j].Score
		}
		return terms[i].Term < terms[j].Term
	})
}

func distinct(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
