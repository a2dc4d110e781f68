// Package extract turns raw document text into a counted multiset of
// candidate signal phrases. Three strategies contribute candidates when a
// linguistic parser is available: noun-phrase chunks, concept-like entity
// spans and a curated regex pattern library. Without a parser, extraction
// degrades to pure n-gram windows over the token stream. Either way, every
// candidate passes the noise filter chain before it is counted.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/filter"
)

// Entity labels produced by linguistic parsers.
const (
	LabelPerson    = "PERSON"
	LabelGPE       = "GPE"
	LabelProduct   = "PRODUCT"
	LabelEvent     = "EVENT"
	LabelWorkOfArt = "WORK_OF_ART"
	LabelLaw       = "LAW"
)

// conceptLabels are entity categories that name ideas rather than people
// or places.
var conceptLabels = map[string]struct{}{
	LabelProduct: {}, LabelEvent: {}, LabelWorkOfArt: {}, LabelLaw: {},
}

// Entity is a labeled span found by a Parser.
type Entity struct {
	Label string
	Text  string
}

// Parser provides linguistic analysis of a text. Implementations wrap an
// external NLP engine; a nil Parser selects the n-gram fallback.
type Parser interface {
	NounPhrases(text string) []string
	Entities(text string) []Entity
}

// PhraseCount is one extracted phrase with its occurrence count.
type PhraseCount struct {
	Phrase string
	Count  int
}

// maxInputChars bounds how much of a document is parsed. Transcripts can
// run to megabytes; phrases past this point add nothing.
const maxInputChars = 100000

// Options configures an Extractor.
type Options struct {
	Parser   Parser
	Chain    *filter.Chain
	MinWords int
	MaxWords int
}

// Extractor produces candidate phrases from text.
type Extractor struct {
	parser   Parser
	chain    *filter.Chain
	minWords int
	maxWords int
}

// New creates an Extractor. A nil Chain gets the default filter chain; a
// nil Parser selects n-gram fallback extraction.
func New(opts Options) *Extractor {
	if opts.MinWords <= 0 {
		opts.MinWords = 2
	}
	if opts.MaxWords < opts.MinWords {
		opts.MaxWords = opts.MinWords + 2
	}
	if opts.Chain == nil {
		opts.Chain = filter.NewChain(filter.Options{
			MinWords: opts.MinWords,
			MaxWords: opts.MaxWords,
		})
	}
	return &Extractor{
		parser:   opts.Parser,
		chain:    opts.Chain,
		minWords: opts.MinWords,
		maxWords: opts.MaxWords,
	}
}

// Extract returns the counted phrases found in text, most frequent first.
// Empty input yields an empty result, never an error.
func (e *Extractor) Extract(text string) []PhraseCount {
	text = truncate(strings.TrimSpace(text), maxInputChars)
	if text == "" {
		return nil
	}
	if e.parser != nil {
		return e.extractParsed(text)
	}
	return e.extractNGrams(text, nil)
}

func (e *Extractor) extractParsed(text string) []PhraseCount {
	ents := e.parser.Entities(text)
	persons := personSpans(ents)

	var candidates []string
	candidates = append(candidates, e.parser.NounPhrases(text)...)
	for _, ent := range ents {
		if _, ok := conceptLabels[ent.Label]; ok {
			candidates = append(candidates, ent.Text)
		}
	}
	candidates = append(candidates, patternMatches(strings.ToLower(text))...)

	return e.countValid(candidates, persons)
}

// extractNGrams slides every window of minWords..maxWords tokens over the
// whitespace-split text.
func (e *Extractor) extractNGrams(text string, persons []string) []PhraseCount {
	words := strings.Fields(text)
	var candidates []string
	for n := e.minWords; n <= e.maxWords; n++ {
		for i := 0; i+n <= len(words); i++ {
			candidates = append(candidates, strings.Join(words[i:i+n], " "))
		}
	}
	return e.countValid(candidates, persons)
}

func (e *Extractor) countValid(candidates []string, persons []string) []PhraseCount {
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, c := range candidates {
		cleaned := cleanPhrase(c)
		if cleaned == "" {
			continue
		}
		if !e.chain.Valid(cleaned, persons) {
			continue
		}
		folded := caseFold(cleaned)
		key := strings.ToLower(folded)
		counts[key]++
		if _, ok := display[key]; !ok {
			display[key] = folded
		}
	}

	out := make([]PhraseCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, PhraseCount{Phrase: display[key], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Phrase < out[j].Phrase
	})
	return out
}

// personSpans collects lowercased personal-name spans and their individual
// parts for the filter chain's containment rule.
func personSpans(ents []Entity) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, ent := range ents {
		if ent.Label != LabelPerson {
			continue
		}
		add(ent.Text)
		for _, part := range strings.Fields(ent.Text) {
			add(part)
		}
	}
	return out
}

var phraseEdgeRe = regexp.MustCompile(`^\W+|\W+$`)

// cleanPhrase collapses whitespace and trims punctuation from the edges,
// leaving the original capitalization intact for the filter chain.
func cleanPhrase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return phraseEdgeRe.ReplaceAllString(s, "")
}

// caseFold lowercases every word except short all-caps tokens, which are
// kept as probable acronyms ("LLM routing", not "llm routing").
func caseFold(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		if len(w) <= 5 && isUpperToken(w) {
			continue
		}
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, " ")
}

func isUpperToken(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
