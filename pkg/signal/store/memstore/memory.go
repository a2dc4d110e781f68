// Package memstore is an in-memory implementation of store.Store for
// tests and small one-off runs.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store"
)

type occKey struct {
	termID     int64
	sourceType string
	sourceName string
	date       string
}

type scoreKey struct {
	termID int64
	period string
}

type processedKey struct {
	sourceType string
	identifier string
}

// Store is an in-memory store.Store.
type Store struct {
	mu          sync.RWMutex
	nextTermID  int64
	nextMention int64
	terms       map[string]store.Term
	termsByID   map[int64]string
	mentions    []store.Mention
	occurrences map[occKey]int
	scores      map[scoreKey]store.PeriodScore
	processed   map[processedKey]struct{}
	runs        []store.Run
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		nextTermID:  1,
		nextMention: 1,
		terms:       make(map[string]store.Term),
		termsByID:   make(map[int64]string),
		occurrences: make(map[occKey]int),
		scores:      make(map[scoreKey]store.PeriodScore),
		processed:   make(map[processedKey]struct{}),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

func (s *Store) GetOrCreateTerm(ctx context.Context, term string, seen time.Time) (store.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := dateOnly(seen)
	if t, ok := s.terms[term]; ok {
		if day.Before(t.FirstSeen) {
			t.FirstSeen = day
		}
		t.LastUpdated = day
		s.terms[term] = t
		return t, nil
	}

	t := store.Term{
		ID:          s.nextTermID,
		Term:        term,
		FirstSeen:   day,
		LastUpdated: day,
	}
	s.nextTermID++
	s.terms[term] = t
	s.termsByID[t.ID] = term
	return t, nil
}

func (s *Store) GetTerm(ctx context.Context, term string) (store.Term, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terms[term]
	return t, ok, nil
}

func (s *Store) AllTerms(ctx context.Context) ([]store.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Term, 0, len(s.terms))
	for _, t := range s.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RecordMention(ctx context.Context, m store.Mention) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Count <= 0 {
		m.Count = 1
	}
	m.ID = s.nextMention
	s.nextMention++
	m.Date = dateOnly(m.Date)
	s.mentions = append(s.mentions, m)

	key := occKey{
		termID:     m.TermID,
		sourceType: m.SourceType,
		sourceName: m.SourceName,
		date:       m.Date.Format(store.DateFormat),
	}
	s.occurrences[key] += m.Count
	return nil
}

func (s *Store) IsProcessed(ctx context.Context, sourceType, identifier string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.processed[processedKey{sourceType, identifier}]
	return ok, nil
}

func (s *Store) MarkProcessed(ctx context.Context, sourceType, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[processedKey{sourceType, identifier}] = struct{}{}
	return nil
}

func (s *Store) AggregateCounts(ctx context.Context, termID int64, since time.Time) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := ""
	if !since.IsZero() {
		cutoff = since.Format(store.DateFormat)
	}
	counts := make(map[string]int)
	for key, n := range s.occurrences {
		if key.termID != termID {
			continue
		}
		if cutoff != "" && key.date < cutoff {
			continue
		}
		counts[key.sourceType] += n
	}
	return counts, nil
}

func (s *Store) DistinctSourcesFor(ctx context.Context, termID int64) ([]store.SourceRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[store.SourceRef]struct{})
	var refs []store.SourceRef
	for _, m := range s.mentions {
		if m.TermID != termID {
			continue
		}
		r := store.SourceRef{Type: m.SourceType, Name: m.SourceName, URL: m.URL}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Type != refs[j].Type {
			return refs[i].Type < refs[j].Type
		}
		return refs[i].Name < refs[j].Name
	})
	return refs, nil
}

func (s *Store) PreviousPeriodScore(ctx context.Context, termID int64, before time.Time) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := before.Format(store.DateFormat)
	best := ""
	var found store.PeriodScore
	for key, ps := range s.scores {
		if key.termID != termID || key.period >= cutoff {
			continue
		}
		if key.period > best {
			best = key.period
			found = ps
		}
	}
	if best == "" {
		return 0, false, nil
	}
	return found.Score, true, nil
}

func (s *Store) SavePeriodScore(ctx context.Context, p store.PeriodScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Period = dateOnly(p.Period)
	s.scores[scoreKey{p.TermID, p.Period.Format(store.DateFormat)}] = p
	return nil
}

func (s *Store) TermHistory(ctx context.Context, term string, since time.Time) ([]store.Occurrence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.terms[term]
	if !ok {
		return nil, nil
	}
	cutoff := ""
	if !since.IsZero() {
		cutoff = since.Format(store.DateFormat)
	}

	var occ []store.Occurrence
	for key, n := range s.occurrences {
		if key.termID != t.ID {
			continue
		}
		if cutoff != "" && key.date < cutoff {
			continue
		}
		occ = append(occ, store.Occurrence{
			TermID:     t.ID,
			Term:       term,
			SourceType: key.sourceType,
			SourceName: key.sourceName,
			Date:       parseDate(key.date),
			Count:      n,
		})
	}
	sort.Slice(occ, func(i, j int) bool { return occ[i].Date.After(occ[j].Date) })
	return occ, nil
}

func (s *Store) TermsForPeriod(ctx context.Context, since time.Time) ([]store.PeriodTermStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := since.Format(store.DateFormat)
	byID := make(map[int64]*store.PeriodTermStats)
	seenSource := make(map[int64]map[string]struct{})

	for key, n := range s.occurrences {
		if key.date < cutoff {
			continue
		}
		term := s.termsByID[key.termID]
		st, ok := byID[key.termID]
		if !ok {
			t := s.terms[term]
			st = &store.PeriodTermStats{
				TermID:    key.termID,
				Term:      term,
				FirstSeen: t.FirstSeen,
				ByType:    make(map[string]int),
			}
			byID[key.termID] = st
			seenSource[key.termID] = make(map[string]struct{})
		}
		st.Total += n
		st.ByType[key.sourceType] += n
		if _, dup := seenSource[key.termID][key.sourceName]; !dup {
			seenSource[key.termID][key.sourceName] = struct{}{}
			st.Sources = append(st.Sources, key.sourceName)
		}
	}

	out := make([]store.PeriodTermStats, 0, len(byID))
	for _, st := range byID {
		sort.Strings(st.Sources)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TermID < out[j].TermID })
	return out, nil
}

func (s *Store) LogRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	return nil
}

// Runs returns the logged collection runs (test helper).
func (s *Store) Runs() []store.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Run, len(s.runs))
	copy(out, s.runs)
	return out
}

// Mentions returns all recorded mentions (test helper).
func (s *Store) Mentions() []store.Mention {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Mention, len(s.mentions))
	copy(out, s.mentions)
	return out
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) time.Time {
	t, err := time.Parse(store.DateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
