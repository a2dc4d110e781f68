// Package store defines the persistence contract for the term pipeline.
// The store owns terms, mentions, aggregated occurrences, period scores
// and processed-source markers; scoring components only read through this
// interface and write nothing but period scores.
package store

import (
	"context"
	"time"
)

// Store is the mention store contract. Implementations must serialize
// writes; readers may assume a stable snapshot once all writes for a
// period have completed.
type Store interface {
	Close() error

	// Terms
	GetOrCreateTerm(ctx context.Context, term string, seen time.Time) (Term, error)
	GetTerm(ctx context.Context, term string) (Term, bool, error)
	AllTerms(ctx context.Context) ([]Term, error)

	// Mentions & dedup markers
	RecordMention(ctx context.Context, m Mention) error
	IsProcessed(ctx context.Context, sourceType, identifier string) (bool, error)
	MarkProcessed(ctx context.Context, sourceType, identifier string) error

	// Aggregates read by the scorer
	AggregateCounts(ctx context.Context, termID int64, since time.Time) (map[string]int, error)
	DistinctSourcesFor(ctx context.Context, termID int64) ([]SourceRef, error)
	PreviousPeriodScore(ctx context.Context, termID int64, before time.Time) (float64, bool, error)
	SavePeriodScore(ctx context.Context, s PeriodScore) error

	// Window queries for velocity and emergence views
	TermHistory(ctx context.Context, term string, since time.Time) ([]Occurrence, error)
	TermsForPeriod(ctx context.Context, since time.Time) ([]PeriodTermStats, error)

	// Bookkeeping
	LogRun(ctx context.Context, r Run) error
}

// Term is a normalized phrase under tracking. FirstSeen only ever moves
// backward (earliest mention wins); LastUpdated bumps on every mention.
type Term struct {
	ID          int64
	Term        string
	FirstSeen   time.Time
	LastUpdated time.Time
}

// Mention is one observation of a term in one document. Append-only;
// Count is how many times the phrase occurred within that document.
type Mention struct {
	ID         int64
	TermID     int64
	SourceType string
	SourceName string
	Date       time.Time
	Count      int
	Context    string
	URL        string
}

// Occurrence is the aggregated count for (term, source, date).
type Occurrence struct {
	TermID     int64
	Term       string
	SourceType string
	SourceName string
	Date       time.Time
	Count      int
}

// SourceRef identifies a distinct origin that mentioned a term.
type SourceRef struct {
	Type string
	Name string
	URL  string
}

// PeriodScore is a term's computed score snapshot for one period, unique
// per (term, period) and overwritten on rescoring.
type PeriodScore struct {
	TermID        int64
	Period        time.Time
	Tier1Mentions int
	Tier2Mentions int
	Tier3Mentions int
	Score         float64
}

// PeriodTermStats aggregates a term's activity inside a query window.
type PeriodTermStats struct {
	TermID    int64
	Term      string
	FirstSeen time.Time
	Total     int
	ByType    map[string]int
	Sources   []string
}

// Run records one collection pass for operational bookkeeping.
type Run struct {
	SourceType  string
	Date        time.Time
	Items       int
	Terms       int
	StartedAt   time.Time
	CompletedAt time.Time
}

// DateFormat is how calendar dates are persisted and compared.
const DateFormat = "2006-01-02"
