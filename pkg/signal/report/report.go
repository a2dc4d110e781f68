// Package report renders scored-term results as JSON and Markdown
// artifacts for the weekly digest and the exploratory emerging view.
package report

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/score"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/tier"
)

// Builder constructs report artifacts with unique IDs.
type Builder struct {
	entropy *ulid.MonotonicEntropy
}

// New creates a report builder.
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// TermEntry is one scored term as rendered in a report.
type TermEntry struct {
	Term          string   `json:"term"`
	Score         float64  `json:"score"`
	Tier1Mentions int      `json:"tier1_mentions"`
	Tier2Mentions int      `json:"tier2_mentions"`
	Tier3Mentions int      `json:"tier3_mentions"`
	Trend         string   `json:"trend"`
	PercentChange float64  `json:"percent_change"`
	CrossTier     bool     `json:"cross_tier"`
	FirstSeen     string   `json:"first_seen,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	URLs          []string `json:"urls,omitempty"`
}

// Digest is the full weekly report artifact.
type Digest struct {
	ID          string      `json:"id"`
	GeneratedAt time.Time   `json:"generated_at"`
	PeriodStart string      `json:"period_start"`
	TotalTerms  int         `json:"total_terms"`
	Emerging    []TermEntry `json:"emerging"`
	Validated   []TermEntry `json:"validated"`
	Mainstream  []TermEntry `json:"mainstream"`
}

// EmergingDigest is the exploratory emergence-ranked artifact.
type EmergingDigest struct {
	ID          string             `json:"id"`
	GeneratedAt time.Time          `json:"generated_at"`
	WindowDays  int                `json:"window_days"`
	Terms       []EmergingEntry    `json:"terms"`
	EarlySignal []EarlySignalEntry `json:"early_signal,omitempty"`
}

// EmergingEntry is one emergence-ranked term.
type EmergingEntry struct {
	Term        string   `json:"term"`
	Score       int      `json:"emergence_score"`
	Count       int      `json:"count"`
	SourceCount int      `json:"source_count"`
	Sources     []string `json:"sources,omitempty"`
	IsNew       bool     `json:"is_new"`
}

// EarlySignalEntry is a term seen only in academic sources.
type EarlySignalEntry struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// BuildDigest assembles the weekly digest from classified tiers.
func (b *Builder) BuildDigest(periodStart time.Time, total int, tiers tier.Tiers) Digest {
	return Digest{
		ID:          ulid.MustNew(ulid.Now(), b.entropy).String(),
		GeneratedAt: time.Now().UTC(),
		PeriodStart: periodStart.Format("2006-01-02"),
		TotalTerms:  total,
		Emerging:    entries(tiers.Emerging),
		Validated:   entries(tiers.Validated),
		Mainstream:  entries(tiers.Mainstream),
	}
}

// BuildEmerging assembles the exploratory emergence artifact.
func (b *Builder) BuildEmerging(windowDays int, terms []score.EmergingTerm, early []signal.EarlySignalTerm) EmergingDigest {
	d := EmergingDigest{
		ID:          ulid.MustNew(ulid.Now(), b.entropy).String(),
		GeneratedAt: time.Now().UTC(),
		WindowDays:  windowDays,
	}
	for _, t := range terms {
		d.Terms = append(d.Terms, EmergingEntry{
			Term:        t.Term,
			Score:       t.Score,
			Count:       t.Total,
			SourceCount: t.SourceCount,
			Sources:     t.Sources,
			IsNew:       t.IsNew,
		})
	}
	for _, t := range early {
		d.EarlySignal = append(d.EarlySignal, EarlySignalEntry{Term: t.Term, Count: t.Count})
	}
	return d
}

// JSON renders any report artifact as indented JSON.
func JSON(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// Markdown renders the digest as a Markdown document.
func (d Digest) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Term Intelligence Report\n\n")
	fmt.Fprintf(&sb, "**Generated:** %s  \n", d.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&sb, "**Period:** week of %s  \n", d.PeriodStart)
	fmt.Fprintf(&sb, "**Terms tracked:** %d\n", d.TotalTerms)

	section(&sb, "Validated (cross-tier)", d.Validated)
	section(&sb, "Emerging (early signal)", d.Emerging)
	section(&sb, "Mainstream", d.Mainstream)
	return sb.String()
}

// Markdown renders the emergence digest as a Markdown document.
func (d EmergingDigest) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Emerging Terms Report\n\n")
	fmt.Fprintf(&sb, "**Generated:** %s  \n", d.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&sb, "**Window:** last %d days\n\n", d.WindowDays)

	sb.WriteString("| Term | Score | Count | Sources | New |\n")
	sb.WriteString("|------|-------|-------|---------|-----|\n")
	for _, t := range d.Terms {
		marker := ""
		if t.IsNew {
			marker = "yes"
		}
		fmt.Fprintf(&sb, "| %s | %d | %d | %d | %s |\n", t.Term, t.Score, t.Count, t.SourceCount, marker)
	}

	if len(d.EarlySignal) > 0 {
		sb.WriteString("\n## Academic-Only Terms (earliest signals)\n\n")
		for _, t := range d.EarlySignal {
			fmt.Fprintf(&sb, "- **%s** (%d)\n", t.Term, t.Count)
		}
	}
	return sb.String()
}

func section(sb *strings.Builder, title string, terms []TermEntry) {
	fmt.Fprintf(sb, "\n## %s\n\n", title)
	if len(terms) == 0 {
		sb.WriteString("_none this period_\n")
		return
	}
	sb.WriteString("| Rank | Term | Score | Trend | Tier1 | Tier3 |\n")
	sb.WriteString("|------|------|-------|-------|-------|-------|\n")
	for i, t := range terms {
		trend := t.Trend
		if t.PercentChange != 0 {
			trend = fmt.Sprintf("%s (%+.1f%%)", t.Trend, t.PercentChange)
		}
		fmt.Fprintf(sb, "| %d | **%s** | %.2f | %s | %d | %d |\n",
			i+1, t.Term, t.Score, trend, t.Tier1Mentions, t.Tier3Mentions)
	}
}

func entries(terms []score.ScoredTerm) []TermEntry {
	out := make([]TermEntry, 0, len(terms))
	for _, t := range terms {
		entry := TermEntry{
			Term:          t.Term,
			Score:         t.Score,
			Tier1Mentions: t.Tier1Mentions,
			Tier2Mentions: t.Tier2Mentions,
			Tier3Mentions: t.Tier3Mentions,
			Trend:         t.Trend,
			PercentChange: t.PercentChange,
			CrossTier:     t.IsCrossTier,
			Sources:       append(append([]string{}, t.Tier1Sources...), t.Tier3Sources...),
			URLs:          t.URLs,
		}
		if !t.FirstSeen.IsZero() {
			entry.FirstSeen = t.FirstSeen.Format("2006-01-02")
		}
		out = append(out, entry)
	}
	return out
}
