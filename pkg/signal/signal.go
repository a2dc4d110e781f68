// Package signal is the term-significance engine facade. It wires the
// extractor, filter chain, mention store and scorer into one pipeline:
// documents go in, tiered scored-term reports come out.
package signal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/config"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/extract"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/filter"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/ingest"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/score"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/tier"
)

// ErrUnknownSource is returned when a document names a source type the
// configuration does not register. Silently scoring an unregistered
// type would corrupt tier arithmetic, so this fails loudly.
var ErrUnknownSource = errors.New("unknown source type")

// contextChars bounds the stored mention context snippet.
const contextChars = 500

// Engine is the pipeline facade.
type Engine struct {
	store     store.Store
	cfg       *config.Config
	extractor *extract.Extractor
	scorer    *score.Scorer
	workers   int
}

// Options configures an Engine.
type Options struct {
	Store   store.Store
	Config  *config.Config
	Parser  extract.Parser
	Workers int
}

// New creates an Engine with the given dependencies. A nil Config gets
// the built-in defaults; a nil Parser selects n-gram extraction.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	chain := filter.NewChain(filter.Options{
		MinWords:    cfg.Extraction.MinWords,
		MaxWords:    cfg.Extraction.MaxWords,
		MinChars:    cfg.Extraction.MinChars,
		Jargon:      filter.NewDenylist(cfg.Denylists.Jargon),
		Generic:     filter.NewDenylist(cfg.Denylists.Generic),
		Social:      filter.NewMarkers(cfg.Denylists.Social),
		Firms:       filter.NewMarkers(cfg.Denylists.Firms),
		MarketNoise: filter.NewMarkers(cfg.Denylists.MarketNoise),
	})
	extractor := extract.New(extract.Options{
		Parser:   opts.Parser,
		Chain:    chain,
		MinWords: cfg.Extraction.MinWords,
		MaxWords: cfg.Extraction.MaxWords,
	})

	return &Engine{
		store:     opts.Store,
		cfg:       cfg,
		extractor: extractor,
		scorer:    score.NewScorer(cfg.Weights),
		workers:   opts.Workers,
	}
}

// Close shuts the engine down.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Document is one unit of source material to process.
type Document struct {
	Title      string
	Content    string
	SourceType string
	SourceName string
	Published  time.Time
	URL        string
	Identifier string
}

// identifier is the dedup key for a document.
func (d Document) identifier() string {
	if d.Identifier != "" {
		return d.Identifier
	}
	return d.URL
}

// ProcessDocument extracts terms from one document and records their
// mentions. It returns the number of distinct terms recorded. Already
// processed documents are skipped. The check-then-mark sequence is not
// crash-atomic; reprocessing one document after a crash only increments
// counts again, which the aggregation arithmetic tolerates.
func (e *Engine) ProcessDocument(ctx context.Context, doc Document) (int, error) {
	if _, ok := e.cfg.SourceTypeFor(doc.SourceType); !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSource, doc.SourceType)
	}

	id := doc.identifier()
	if id != "" {
		done, err := e.store.IsProcessed(ctx, doc.SourceType, id)
		if err != nil {
			return 0, fmt.Errorf("dedup check %s: %w", id, err)
		}
		if done {
			return 0, nil
		}
	}

	text := doc.Title
	if doc.Content != "" {
		if text != "" {
			text += ". "
		}
		text += extract.StripHTML(doc.Content)
	}
	cleaned := extract.CleanText(text)
	phrases := e.extractor.Extract(cleaned)

	date := doc.Published
	if date.IsZero() {
		date = time.Now().UTC()
	}

	for _, pc := range phrases {
		term, err := e.store.GetOrCreateTerm(ctx, pc.Phrase, date)
		if err != nil {
			return 0, fmt.Errorf("term %q: %w", pc.Phrase, err)
		}
		m := store.Mention{
			TermID:     term.ID,
			SourceType: doc.SourceType,
			SourceName: doc.SourceName,
			Date:       date,
			Count:      pc.Count,
			Context:    snippet(cleaned, pc.Phrase),
			URL:        doc.URL,
		}
		if err := e.store.RecordMention(ctx, m); err != nil {
			return 0, fmt.Errorf("record %q: %w", pc.Phrase, err)
		}
	}

	if id != "" {
		if err := e.store.MarkProcessed(ctx, doc.SourceType, id); err != nil {
			return 0, fmt.Errorf("mark processed %s: %w", id, err)
		}
	}
	return len(phrases), nil
}

// BatchResult summarizes one ProcessBatch call.
type BatchResult struct {
	Documents int
	Skipped   int
	Terms     int
	Errors    []error
}

// ProcessBatch processes documents concurrently. Extraction is
// independent per document; the store serializes its own writes. The
// batch is logged as one collection run per source type.
func (e *Engine) ProcessBatch(ctx context.Context, docs []Document) (BatchResult, error) {
	started := time.Now().UTC()

	type outcome struct {
		sourceType string
		terms      int
		skipped    bool
		err        error
	}
	results := make(chan outcome, len(docs))

	pool := ingest.NewPool(e.workers, len(docs))
	pool.Start(ctx)
	for _, doc := range docs {
		doc := doc
		err := pool.Submit(func(ctx context.Context) error {
			n, err := e.ProcessDocument(ctx, doc)
			results <- outcome{
				sourceType: doc.SourceType,
				terms:      n,
				skipped:    err == nil && n == 0,
				err:        err,
			}
			return err
		})
		if err != nil {
			results <- outcome{sourceType: doc.SourceType, err: err}
		}
	}
	pool.Close()
	close(results)

	var res BatchResult
	perSource := make(map[string]*store.Run)
	for out := range results {
		res.Documents++
		switch {
		case out.err != nil:
			res.Errors = append(res.Errors, out.err)
		case out.skipped:
			res.Skipped++
		default:
			res.Terms += out.terms
		}
		run, ok := perSource[out.sourceType]
		if !ok {
			run = &store.Run{SourceType: out.sourceType, Date: started, StartedAt: started}
			perSource[out.sourceType] = run
		}
		run.Items++
		run.Terms += out.terms
	}

	completed := time.Now().UTC()
	for _, run := range perSource {
		run.CompletedAt = completed
		if err := e.store.LogRun(ctx, *run); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("log run %s: %w", run.SourceType, err))
		}
	}
	return res, nil
}

// ScoreAll computes scores for every known term against the period
// starting at periodStart and persists a period-score snapshot for
// each. Results come back sorted by descending score. Callers must run
// this only after all extraction for the period has completed.
func (e *Engine) ScoreAll(ctx context.Context, periodStart time.Time) ([]score.ScoredTerm, error) {
	terms, err := e.store.AllTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}

	scored := make([]score.ScoredTerm, 0, len(terms))
	for _, t := range terms {
		counts, err := e.store.AggregateCounts(ctx, t.ID, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("aggregate %q: %w", t.Term, err)
		}

		in := score.Input{
			TermID:    t.ID,
			Term:      t.Term,
			FirstSeen: t.FirstSeen,
		}
		for sourceType, n := range counts {
			switch e.cfg.TierFor(sourceType) {
			case 1:
				in.Tier1Count += n
			case 2:
				in.Tier2Count += n
			case 3:
				in.Tier3Count += n
			}
		}

		refs, err := e.store.DistinctSourcesFor(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("sources %q: %w", t.Term, err)
		}
		for _, ref := range refs {
			switch e.cfg.TierFor(ref.Type) {
			case 1:
				in.Tier1Sources = append(in.Tier1Sources, ref.Name)
			case 3:
				// All tier-3 types fold into one mainstream bucket.
				in.Tier3Sources = append(in.Tier3Sources, ref.Name)
			}
			if ref.URL != "" {
				in.URLs = append(in.URLs, ref.URL)
			}
		}
		in.URLs = uniqueStrings(in.URLs)

		prev, prevOK, err := e.store.PreviousPeriodScore(ctx, t.ID, periodStart)
		if err != nil {
			return nil, fmt.Errorf("previous score %q: %w", t.Term, err)
		}

		st := e.scorer.Score(in, prev, prevOK, periodStart)
		ps := store.PeriodScore{
			TermID:        t.ID,
			Period:        periodStart,
			Tier1Mentions: st.Tier1Mentions,
			Tier2Mentions: st.Tier2Mentions,
			Tier3Mentions: st.Tier3Mentions,
			Score:         st.Score,
		}
		if err := e.store.SavePeriodScore(ctx, ps); err != nil {
			return nil, fmt.Errorf("save score %q: %w", t.Term, err)
		}
		scored = append(scored, st)
	}

	score.SortByScore(scored)
	return scored, nil
}

// Classify buckets already-sorted scored terms into adoption tiers,
// capped at the configured display limit per bucket.
func (e *Engine) Classify(scored []score.ScoredTerm) tier.Tiers {
	return tier.Classify(scored, e.cfg.Limits.Display)
}

// Velocity computes the half-window rate-of-change view for one term.
func (e *Engine) Velocity(ctx context.Context, term string, now time.Time) (score.VelocityReport, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	since := now.AddDate(0, 0, -e.cfg.Velocity.LookbackDays)
	history, err := e.store.TermHistory(ctx, term, since)
	if err != nil {
		return score.VelocityReport{}, fmt.Errorf("history %q: %w", term, err)
	}
	return score.Velocity(term, history, now, e.cfg.Velocity), nil
}

// EmergingTerms ranks the window's terms by emergence score, excluding
// established vocabulary and thinly-mentioned noise. limit <= 0 returns
// everything.
func (e *Engine) EmergingTerms(ctx context.Context, now time.Time, days, limit int) ([]score.EmergingTerm, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	since := now.AddDate(0, 0, -days)
	stats, err := e.store.TermsForPeriod(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("window stats: %w", err)
	}

	established := filter.NewDenylist(e.cfg.Denylists.Established)
	academic := e.cfg.AcademicTypes()

	var out []score.EmergingTerm
	for _, st := range stats {
		if established.Contains(st.Term) {
			continue
		}
		if st.Total < e.cfg.Limits.MinMentions {
			continue
		}
		out = append(out, score.EmergenceScore(st, academic, since))
	}
	score.SortEmerging(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// EarlySignalTerm is a term seen only in academic sources so far.
type EarlySignalTerm struct {
	Term  string
	Count int
}

// EarlySignalTerms returns terms mentioned exclusively by academic
// source types in the window, the earliest signals available before a
// term crosses into general sources.
func (e *Engine) EarlySignalTerms(ctx context.Context, now time.Time, days, limit int) ([]EarlySignalTerm, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	since := now.AddDate(0, 0, -days)
	stats, err := e.store.TermsForPeriod(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("window stats: %w", err)
	}

	academic := make(map[string]struct{})
	for _, name := range e.cfg.AcademicTypes() {
		academic[name] = struct{}{}
	}

	var out []EarlySignalTerm
	for _, st := range stats {
		if len(st.ByType) == 0 {
			continue
		}
		only := true
		for sourceType := range st.ByType {
			if _, ok := academic[sourceType]; !ok {
				only = false
				break
			}
		}
		if only {
			out = append(out, EarlySignalTerm{Term: st.Term, Count: st.Total})
		}
	}
	sortEarly(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// WeekStart returns the Monday of t's ISO week, truncated to midnight
// UTC. Period scores key on this date.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	t = t.AddDate(0, 0, -(weekday - 1))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// snippet returns up to contextChars of text surrounding the first
// occurrence of phrase, for display next to a mention.
func snippet(text, phrase string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(phrase))
	if idx < 0 {
		if len(text) > contextChars {
			return text[:contextChars]
		}
		return text
	}
	start := idx - contextChars/2
	if start < 0 {
		start = 0
	}
	end := start + contextChars
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

func uniqueStrings(in []string) []string {
	set := make(map[string]struct{}, len(in))
	var out []string
	for _, val := range in {
		if val == "" {
			continue
		}
		if _, ok := set[val]; ok {
			continue
		}
		set[val] = struct{}{}
		out = append(out, val)
	}
	return out
}

func sortEarly(terms []EarlySignalTerm) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
}
