package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/config"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store/memstore"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestEngine() (*Engine, *memstore.Store) {
	st := memstore.New()
	e := New(Options{Store: st, Config: config.Default(), Workers: 2})
	return e, st
}

func TestProcessDocumentRecordsTerms(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	doc := Document{
		Title:      "embedded payments keep growing",
		Content:    "embedded payments adoption is rising across fintech platforms",
		SourceType: config.TypeVCBlog,
		SourceName: "a16z",
		Published:  day("2026-08-25"),
		URL:        "https://example.com/post",
		Identifier: "post-1",
	}
	n, err := e.ProcessDocument(ctx, doc)
	if err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}
	if n == 0 {
		t.Fatal("no terms extracted")
	}

	term, found, err := st.GetTerm(ctx, "embedded payments")
	if err != nil || !found {
		t.Fatalf("GetTerm = (found=%v, err=%v), want recorded term", found, err)
	}
	if !term.FirstSeen.Equal(day("2026-08-25")) {
		t.Errorf("first_seen = %v, want publish date", term.FirstSeen)
	}

	mentions := st.Mentions()
	if len(mentions) == 0 {
		t.Fatal("no mentions recorded")
	}
	for _, m := range mentions {
		if m.SourceType != config.TypeVCBlog || m.SourceName != "a16z" {
			t.Errorf("mention source = %s/%s", m.SourceType, m.SourceName)
		}
		if m.URL != doc.URL {
			t.Errorf("mention url = %q", m.URL)
		}
	}
}

func TestProcessDocumentUnknownSource(t *testing.T) {
	e, _ := newTestEngine()
	_, err := e.ProcessDocument(context.Background(), Document{
		Title:      "some title here",
		SourceType: "carrier_pigeon",
		SourceName: "roof",
	})
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("err = %v, want ErrUnknownSource", err)
	}
}

func TestProcessDocumentDeduplicates(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	doc := Document{
		Title:      "agentic workflows in production",
		SourceType: config.TypeHackerNews,
		SourceName: "hn",
		Published:  day("2026-08-25"),
		Identifier: "item-99",
	}
	first, err := e.ProcessDocument(ctx, doc)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first == 0 {
		t.Fatal("first pass extracted nothing")
	}
	second, err := e.ProcessDocument(ctx, doc)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second != 0 {
		t.Errorf("second pass = %d terms, want 0 (already processed)", second)
	}
}

func TestProcessDocumentReprocessDoublesCounts(t *testing.T) {
	// Without an identifier there is no dedup marker, so a second pass
	// records every mention again and the aggregation arithmetic must
	// come out to exactly double.
	e, st := newTestEngine()
	ctx := context.Background()

	doc := Document{
		Title:      "embedded payments keep growing",
		Content:    "embedded payments adoption is rising across fintech platforms",
		SourceType: config.TypeVCBlog,
		SourceName: "a16z",
		Published:  day("2026-08-25"),
	}
	if _, err := e.ProcessDocument(ctx, doc); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	term, found, err := st.GetTerm(ctx, "embedded payments")
	if err != nil || !found {
		t.Fatalf("GetTerm = (found=%v, err=%v), want recorded term", found, err)
	}
	once, err := st.AggregateCounts(ctx, term.ID, time.Time{})
	if err != nil {
		t.Fatalf("AggregateCounts after first pass: %v", err)
	}
	if once[config.TypeVCBlog] == 0 {
		t.Fatal("first pass recorded no counts")
	}

	if _, err := e.ProcessDocument(ctx, doc); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	twice, err := st.AggregateCounts(ctx, term.ID, time.Time{})
	if err != nil {
		t.Fatalf("AggregateCounts after second pass: %v", err)
	}
	if len(twice) != len(once) {
		t.Fatalf("source types = %d, want %d", len(twice), len(once))
	}
	for sourceType, n := range once {
		if twice[sourceType] != 2*n {
			t.Errorf("counts[%s] = %d after reprocess, want %d", sourceType, twice[sourceType], 2*n)
		}
	}
}

func TestScoreAllCrossTier(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	docs := []Document{
		{
			Title:      "embedded payments keep growing",
			SourceType: config.TypeVCBlog,
			SourceName: "a16z",
			Published:  day("2026-08-25"),
			Identifier: "vc-1",
		},
		{
			Title:      "embedded payments drive platform revenue",
			SourceType: config.TypeEarningsCall,
			SourceName: "ACME Q2",
			Published:  day("2026-08-26"),
			Identifier: "ec-1",
		},
	}
	for _, doc := range docs {
		if _, err := e.ProcessDocument(ctx, doc); err != nil {
			t.Fatalf("process: %v", err)
		}
	}

	period := day("2026-08-24")
	scored, err := e.ScoreAll(ctx, period)
	if err != nil {
		t.Fatalf("ScoreAll: %v", err)
	}
	if len(scored) == 0 {
		t.Fatal("no scored terms")
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Fatal("scored terms not sorted descending")
		}
	}

	var target *struct {
		cross bool
		score float64
		trend string
	}
	tiers := e.Classify(scored)
	for _, st := range scored {
		if st.Term == "embedded payments" {
			target = &struct {
				cross bool
				score float64
				trend string
			}{st.IsCrossTier, st.Score, st.Trend}
		}
	}
	if target == nil {
		t.Fatalf("embedded payments missing from %v", scored)
	}
	if !target.cross {
		t.Error("term in both tier-1 and tier-3 sources should be cross-tier")
	}
	if target.trend != "new" {
		t.Errorf("first-period trend = %q, want new", target.trend)
	}

	found := false
	for _, st := range tiers.Validated {
		if st.Term == "embedded payments" {
			found = true
		}
	}
	if !found {
		t.Errorf("cross-tier term not in validated bucket: %+v", tiers)
	}
}

func TestScoreAllTrendAcrossPeriods(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	base := Document{
		Title:      "agentic workflows in production",
		SourceType: config.TypeVCBlog,
		SourceName: "a16z",
		Published:  day("2026-08-11"),
		Identifier: "w1",
	}
	if _, err := e.ProcessDocument(ctx, base); err != nil {
		t.Fatal(err)
	}
	// Score a period after first sight so the baseline carries no new
	// bonus; one source gives a baseline of 10.
	if _, err := e.ScoreAll(ctx, day("2026-08-17")); err != nil {
		t.Fatal(err)
	}

	// Second week brings more sources, so the score rises.
	for _, doc := range []Document{
		{Title: "agentic workflows at scale", SourceType: config.TypeVCBlog, SourceName: "bvp", Published: day("2026-08-25"), Identifier: "w2a"},
		{Title: "agentic workflows everywhere now", SourceType: config.TypeVCBlog, SourceName: "sequoia", Published: day("2026-08-26"), Identifier: "w2b"},
	} {
		if _, err := e.ProcessDocument(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	scored, err := e.ScoreAll(ctx, day("2026-08-24"))
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range scored {
		if st.Term != "agentic workflows" {
			continue
		}
		if st.Trend != "up" {
			t.Errorf("trend = %q, want up", st.Trend)
		}
		if st.PercentChange <= 10 {
			t.Errorf("percent change = %v, want above deadband", st.PercentChange)
		}
		return
	}
	t.Fatal("agentic workflows missing from scores")
}

func TestProcessBatch(t *testing.T) {
	// One worker keeps the duplicate check deterministic: concurrent
	// workers could both pass the dedup check before either marks.
	st := memstore.New()
	e := New(Options{Store: st, Config: config.Default(), Workers: 1})
	ctx := context.Background()

	docs := []Document{
		{Title: "embedded payments keep growing", SourceType: config.TypeVCBlog, SourceName: "a16z", Published: day("2026-08-25"), Identifier: "b1"},
		{Title: "vector database pricing wars", SourceType: config.TypeHackerNews, SourceName: "hn", Published: day("2026-08-25"), Identifier: "b2"},
		{Title: "vector database pricing wars", SourceType: config.TypeHackerNews, SourceName: "hn", Published: day("2026-08-25"), Identifier: "b2"},
	}
	res, err := e.ProcessBatch(ctx, docs)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if res.Documents != 3 {
		t.Errorf("documents = %d, want 3", res.Documents)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 duplicate", res.Skipped)
	}
	if len(res.Errors) != 0 {
		t.Errorf("errors = %v", res.Errors)
	}

	runs := st.Runs()
	if len(runs) != 2 {
		t.Errorf("runs = %d, want one per source type", len(runs))
	}
}

func TestEmergingAndEarlySignalTerms(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()
	now := day("2026-08-28")

	docs := []Document{
		{
			Title:      "agent sandboxing improves agent sandboxing research",
			SourceType: config.TypeArxiv,
			SourceName: "cs.CR",
			Published:  day("2026-08-26"),
			Identifier: "arxiv-1",
		},
		{
			Title:      "agent sandboxing lands on the front page",
			SourceType: config.TypeHackerNews,
			SourceName: "hn",
			Published:  day("2026-08-27"),
			Identifier: "hn-1",
		},
		{
			Title:      "neural retrieval benchmarks updated again",
			SourceType: config.TypeArxiv,
			SourceName: "cs.IR",
			Published:  day("2026-08-27"),
			Identifier: "arxiv-2",
		},
		{
			Title:      "neural retrieval hybrid ranking study",
			SourceType: config.TypeArxiv,
			SourceName: "cs.IR",
			Published:  day("2026-08-28"),
			Identifier: "arxiv-3",
		},
	}
	for _, doc := range docs {
		if _, err := e.ProcessDocument(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	emerging, err := e.EmergingTerms(ctx, now, 7, 0)
	if err != nil {
		t.Fatalf("EmergingTerms: %v", err)
	}
	foundSandbox := false
	for _, et := range emerging {
		if et.Term == "agent sandboxing" {
			foundSandbox = true
			if !et.IsNew {
				t.Error("term first seen this window should be new")
			}
			if et.SourceCount < 2 {
				t.Errorf("source count = %d, want >= 2", et.SourceCount)
			}
		}
	}
	if !foundSandbox {
		t.Fatalf("agent sandboxing missing from emerging: %v", emerging)
	}

	early, err := e.EarlySignalTerms(ctx, now, 7, 0)
	if err != nil {
		t.Fatalf("EarlySignalTerms: %v", err)
	}
	var haveRetrieval, haveSandbox bool
	for _, et := range early {
		if et.Term == "neural retrieval" {
			haveRetrieval = true
		}
		if et.Term == "agent sandboxing" {
			haveSandbox = true
		}
	}
	if !haveRetrieval {
		t.Errorf("arxiv-only term missing from early signal: %v", early)
	}
	if haveSandbox {
		t.Error("term also seen on hackernews should not be early-signal-only")
	}
}

func TestVelocityThroughEngine(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()
	now := day("2026-08-28")

	term, _ := st.GetOrCreateTerm(ctx, "agent sandboxing", day("2026-08-16"))
	for _, m := range []struct {
		date  string
		count int
	}{
		{"2026-08-16", 1},
		{"2026-08-25", 3},
		{"2026-08-27", 4},
	} {
		err := st.RecordMention(ctx, storeMention(term.ID, m.date, m.count))
		if err != nil {
			t.Fatal(err)
		}
	}

	rep, err := e.Velocity(ctx, "agent sandboxing", now)
	if err != nil {
		t.Fatalf("Velocity: %v", err)
	}
	if rep.Trend != "rising" {
		t.Errorf("trend = %q, want rising", rep.Trend)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-08-24", "2026-08-24"}, // Monday maps to itself
		{"2026-08-26", "2026-08-24"}, // Wednesday
		{"2026-08-29", "2026-08-24"}, // Saturday
		{"2026-08-30", "2026-08-24"}, // Sunday belongs to the prior Monday
		{"2026-08-31", "2026-08-31"}, // next Monday
	}
	for _, tc := range cases {
		got := WeekStart(day(tc.in))
		if !got.Equal(day(tc.want)) {
			t.Errorf("WeekStart(%s) = %v, want %s", tc.in, got, tc.want)
		}
	}
}

func storeMention(termID int64, date string, count int) store.Mention {
	return store.Mention{
		TermID:     termID,
		SourceType: "hackernews",
		SourceName: "hn",
		Date:       day(date),
		Count:      count,
	}
}
