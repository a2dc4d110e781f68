package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(s string) time.Time {
	t, err := time.Parse(store.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGetOrCreateTermKeepsEarliestFirstSeen(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateTerm(ctx, "agentic ai", day("2026-08-10"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	again, err := s.GetOrCreateTerm(ctx, "agentic ai", day("2026-08-20"))
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}

	if again.ID != first.ID {
		t.Errorf("same term got new ID %d, want %d", again.ID, first.ID)
	}
	if !again.FirstSeen.Equal(day("2026-08-10")) {
		t.Errorf("first_seen = %v, want 2026-08-10", again.FirstSeen)
	}
	if !again.LastUpdated.Equal(day("2026-08-20")) {
		t.Errorf("last_updated = %v, want 2026-08-20", again.LastUpdated)
	}

	// An earlier sighting moves first_seen backward.
	earlier, err := s.GetOrCreateTerm(ctx, "agentic ai", day("2026-08-01"))
	if err != nil {
		t.Fatalf("earlier: %v", err)
	}
	if !earlier.FirstSeen.Equal(day("2026-08-01")) {
		t.Errorf("first_seen = %v, want moved back to 2026-08-01", earlier.FirstSeen)
	}
}

func TestGetTermMissing(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.GetTerm(context.Background(), "nothing here")
	if err != nil {
		t.Fatalf("GetTerm: %v", err)
	}
	if found {
		t.Error("GetTerm on missing term reported found")
	}
}

func TestRecordMentionAccumulatesOccurrences(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	term, err := s.GetOrCreateTerm(ctx, "embedded payments", day("2026-08-24"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	m := store.Mention{
		TermID:     term.ID,
		SourceType: "vc_blog",
		SourceName: "a16z",
		Date:       day("2026-08-24"),
		Count:      3,
		URL:        "https://example.com/post",
	}
	if err := s.RecordMention(ctx, m); err != nil {
		t.Fatalf("first mention: %v", err)
	}
	// Same source, same day: a second mention is legal and accumulates.
	m.Count = 2
	if err := s.RecordMention(ctx, m); err != nil {
		t.Fatalf("second mention: %v", err)
	}

	counts, err := s.AggregateCounts(ctx, term.ID, time.Time{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if counts["vc_blog"] != 5 {
		t.Errorf("vc_blog count = %d, want 5", counts["vc_blog"])
	}
}

func TestAggregateCountsSinceCutoff(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	term, _ := s.GetOrCreateTerm(ctx, "vector database", day("2026-08-01"))
	old := store.Mention{TermID: term.ID, SourceType: "hackernews", SourceName: "hn", Date: day("2026-08-01"), Count: 4}
	recent := store.Mention{TermID: term.ID, SourceType: "hackernews", SourceName: "hn", Date: day("2026-08-25"), Count: 2}
	if err := s.RecordMention(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordMention(ctx, recent); err != nil {
		t.Fatal(err)
	}

	counts, err := s.AggregateCounts(ctx, term.ID, day("2026-08-20"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if counts["hackernews"] != 2 {
		t.Errorf("windowed count = %d, want 2", counts["hackernews"])
	}
}

func TestMarkProcessedIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	done, err := s.IsProcessed(ctx, "hackernews", "item-42")
	if err != nil || done {
		t.Fatalf("IsProcessed before mark = (%v, %v), want (false, nil)", done, err)
	}

	for i := 0; i < 3; i++ {
		if err := s.MarkProcessed(ctx, "hackernews", "item-42"); err != nil {
			t.Fatalf("MarkProcessed call %d: %v", i, err)
		}
	}

	done, err = s.IsProcessed(ctx, "hackernews", "item-42")
	if err != nil || !done {
		t.Errorf("IsProcessed after mark = (%v, %v), want (true, nil)", done, err)
	}
}

func TestDistinctSourcesFor(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	term, _ := s.GetOrCreateTerm(ctx, "agent orchestration", day("2026-08-24"))
	mentions := []store.Mention{
		{TermID: term.ID, SourceType: "vc_blog", SourceName: "a16z", Date: day("2026-08-24"), URL: "https://a.example"},
		{TermID: term.ID, SourceType: "vc_blog", SourceName: "a16z", Date: day("2026-08-25"), URL: "https://a.example"},
		{TermID: term.ID, SourceType: "earnings_call", SourceName: "ACME Q2", Date: day("2026-08-24")},
	}
	for _, m := range mentions {
		if err := s.RecordMention(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	refs, err := s.DistinctSourcesFor(ctx, term.ID)
	if err != nil {
		t.Fatalf("DistinctSourcesFor: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("refs = %v, want 2 distinct", refs)
	}
}

func TestPeriodScoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	term, _ := s.GetOrCreateTerm(ctx, "embedded payments", day("2026-08-01"))

	if _, found, err := s.PreviousPeriodScore(ctx, term.ID, day("2026-08-24")); err != nil || found {
		t.Fatalf("PreviousPeriodScore on empty = (found=%v, err=%v)", found, err)
	}

	weeks := []store.PeriodScore{
		{TermID: term.ID, Period: day("2026-08-10"), Score: 60},
		{TermID: term.ID, Period: day("2026-08-17"), Score: 80},
	}
	for _, ps := range weeks {
		if err := s.SavePeriodScore(ctx, ps); err != nil {
			t.Fatal(err)
		}
	}

	prev, found, err := s.PreviousPeriodScore(ctx, term.ID, day("2026-08-24"))
	if err != nil {
		t.Fatalf("PreviousPeriodScore: %v", err)
	}
	if !found || prev != 80 {
		t.Errorf("previous = (%v, %v), want (80, true): most recent earlier period", prev, found)
	}

	// Rescoring the same period overwrites, not duplicates.
	if err := s.SavePeriodScore(ctx, store.PeriodScore{TermID: term.ID, Period: day("2026-08-17"), Score: 95}); err != nil {
		t.Fatal(err)
	}
	prev, _, _ = s.PreviousPeriodScore(ctx, term.ID, day("2026-08-24"))
	if prev != 95 {
		t.Errorf("previous after rescore = %v, want 95", prev)
	}
}

func TestTermHistoryWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	term, _ := s.GetOrCreateTerm(ctx, "neural retrieval", day("2026-08-01"))
	for _, m := range []store.Mention{
		{TermID: term.ID, SourceType: "arxiv", SourceName: "cs.IR", Date: day("2026-08-05"), Count: 1},
		{TermID: term.ID, SourceType: "arxiv", SourceName: "cs.IR", Date: day("2026-08-25"), Count: 2},
	} {
		if err := s.RecordMention(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	occ, err := s.TermHistory(ctx, "neural retrieval", day("2026-08-20"))
	if err != nil {
		t.Fatalf("TermHistory: %v", err)
	}
	if len(occ) != 1 || occ[0].Count != 2 {
		t.Errorf("windowed history = %v, want one row with count 2", occ)
	}
}

func TestTermsForPeriodGroups(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, _ := s.GetOrCreateTerm(ctx, "agent sandboxing", day("2026-08-22"))
	b, _ := s.GetOrCreateTerm(ctx, "vector database", day("2026-08-01"))
	for _, m := range []store.Mention{
		{TermID: a.ID, SourceType: "arxiv", SourceName: "cs.CR", Date: day("2026-08-24"), Count: 2},
		{TermID: a.ID, SourceType: "hackernews", SourceName: "hn", Date: day("2026-08-25"), Count: 3},
		{TermID: b.ID, SourceType: "github", SourceName: "trending", Date: day("2026-08-25"), Count: 1},
	} {
		if err := s.RecordMention(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.TermsForPeriod(ctx, day("2026-08-20"))
	if err != nil {
		t.Fatalf("TermsForPeriod: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %v, want 2 terms", stats)
	}
	var sandbox *store.PeriodTermStats
	for i := range stats {
		if stats[i].Term == "agent sandboxing" {
			sandbox = &stats[i]
		}
	}
	if sandbox == nil {
		t.Fatal("agent sandboxing missing from period stats")
	}
	if sandbox.Total != 5 {
		t.Errorf("total = %d, want 5", sandbox.Total)
	}
	if sandbox.ByType["arxiv"] != 2 || sandbox.ByType["hackernews"] != 3 {
		t.Errorf("by type = %v", sandbox.ByType)
	}
	if len(sandbox.Sources) != 2 {
		t.Errorf("sources = %v, want 2", sandbox.Sources)
	}
}

func TestLogRun(t *testing.T) {
	s := openTestStore(t)
	run := store.Run{
		SourceType:  "hackernews",
		Date:        day("2026-08-25"),
		Items:       30,
		Terms:       120,
		StartedAt:   time.Now().Add(-time.Minute),
		CompletedAt: time.Now(),
	}
	if err := s.LogRun(context.Background(), run); err != nil {
		t.Fatalf("LogRun: %v", err)
	}
}
