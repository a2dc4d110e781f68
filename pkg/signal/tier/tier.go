// Package tier partitions scored terms into adoption-stage buckets.
package tier

import "github.com/sullygpt-ui/keyword-intelligence/pkg/signal/score"

// Bucket names.
const (
	Emerging   = "emerging"
	Validated  = "validated"
	Mainstream = "mainstream"
)

// Tiers holds the three non-overlapping buckets. Each is ordered by
// score because classification preserves the input order, which the
// caller sorts once before bucketing.
type Tiers struct {
	Emerging   []score.ScoredTerm
	Validated  []score.ScoredTerm
	Mainstream []score.ScoredTerm
}

// Classify partitions scored terms. Cross-tier terms are validated;
// tier-1-only terms are emerging; tier-3-heavy terms are mainstream.
// Anything ambiguous falls back to emerging: uncertain signal is
// treated as earlier-stage, never promoted. Each bucket is truncated
// to limit entries; limit <= 0 means no truncation.
func Classify(terms []score.ScoredTerm, limit int) Tiers {
	var t Tiers
	for _, st := range terms {
		switch {
		case st.IsCrossTier:
			t.Validated = append(t.Validated, st)
		case st.Tier1Mentions > 0 && st.Tier3Mentions == 0:
			t.Emerging = append(t.Emerging, st)
		case st.Tier3Mentions > st.Tier1Mentions:
			t.Mainstream = append(t.Mainstream, st)
		default:
			t.Emerging = append(t.Emerging, st)
		}
	}
	t.Emerging = truncate(t.Emerging, limit)
	t.Validated = truncate(t.Validated, limit)
	t.Mainstream = truncate(t.Mainstream, limit)
	return t
}

// BucketFor reports which bucket a single scored term falls into.
func BucketFor(st score.ScoredTerm) string {
	switch {
	case st.IsCrossTier:
		return Validated
	case st.Tier1Mentions > 0 && st.Tier3Mentions == 0:
		return Emerging
	case st.Tier3Mentions > st.Tier1Mentions:
		return Mainstream
	default:
		return Emerging
	}
}

func truncate(in []score.ScoredTerm, limit int) []score.ScoredTerm {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
