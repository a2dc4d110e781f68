package score

import (
	"sort"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store"
)

// Emergence bonuses. These deliberately reward novelty and academic
// presence over raw popularity so an already-mainstream term cannot
// crowd the emerging view.
const (
	emergenceNewBonus       = 50
	emergenceAcademicBonus  = 20
	emergenceAcademicHeavy  = 15
	emergencePerSource      = 10
	emergenceModerateBonus  = 10
	emergencePopularCut     = 50
	emergencePopularPenalty = 10
	emergenceModerateMin    = 5
	emergenceModerateMax    = 30
)

// EmergingTerm is a term ranked by the exploratory emergence score.
type EmergingTerm struct {
	Term        string
	Score       int
	Total       int
	SourceCount int
	Sources     []string
	IsNew       bool
	FirstSeen   time.Time
}

// EmergenceScore ranks a term's window stats by novelty. academic names
// the source types whose presence counts as academic signal;
// periodStart bounds "new this period".
func EmergenceScore(stats store.PeriodTermStats, academic []string, periodStart time.Time) EmergingTerm {
	et := EmergingTerm{
		Term:        stats.Term,
		Total:       stats.Total,
		SourceCount: len(stats.Sources),
		Sources:     stats.Sources,
		FirstSeen:   stats.FirstSeen,
	}

	if !stats.FirstSeen.IsZero() && !stats.FirstSeen.Before(periodStart) {
		et.IsNew = true
		et.Score += emergenceNewBonus
	}

	academicCount := 0
	for _, name := range academic {
		academicCount += stats.ByType[name]
	}
	if academicCount > 0 {
		et.Score += emergenceAcademicBonus
	}
	if academicCount*2 > stats.Total {
		et.Score += emergenceAcademicHeavy
	}

	if et.SourceCount >= 2 {
		et.Score += emergencePerSource * et.SourceCount
	}
	if stats.Total >= emergenceModerateMin && stats.Total <= emergenceModerateMax {
		et.Score += emergenceModerateBonus
	}
	if stats.Total > emergencePopularCut {
		et.Score -= emergencePopularPenalty
	}
	return et
}

// SortEmerging orders emerging terms by descending score, then count,
// then alphabetically.
func SortEmerging(terms []EmergingTerm) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Score != terms[j].Score {
			return terms[i].Score > terms[j].Score
		}
		if terms[i].Total != terms[j].Total {
			return terms[i].Total > terms[j].Total
		}
		return terms[i].Term < terms[j].Term
	})
}
