// Package filter rejects candidate phrases that are noise rather than
// signal: fragments, boilerplate, entity names, market chatter and
// probable personal names. The chain is ordered and short-circuits on the
// first rejection; each rule is independent, so order affects only
// performance.
package filter

import (
	"regexp"
	"strings"
	"unicode"
)

// Phrase is a candidate with its case still intact. The person-name
// heuristic needs the original capitalization, so case folding happens
// after filtering, not before.
type Phrase struct {
	Text  string
	Lower string
	Words []string
	lower []string
}

// NewPhrase parses a candidate string.
func NewPhrase(text string) Phrase {
	words := strings.Fields(text)
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}
	return Phrase{
		Text:  strings.Join(words, " "),
		Lower: strings.ToLower(strings.Join(words, " ")),
		Words: words,
		lower: lower,
	}
}

// Rule is one named predicate in the chain. Reject returns true when the
// phrase should be dropped.
type Rule struct {
	Name   string
	Reject func(p Phrase, persons []string) bool
}

// Options configures a Chain. Zero-valued lists disable the corresponding
// rules; word/char bounds fall back to the extraction defaults.
type Options struct {
	MinWords    int
	MaxWords    int
	MinChars    int
	Jargon      *Denylist
	Generic     *Denylist
	Social      *Markers
	Firms       *Markers
	MarketNoise *Markers
}

// Chain is the ordered noise filter.
type Chain struct {
	rules []Rule
}

var tickerVerbs = regexp.MustCompile(`\b(stock|shares|price|dips|rises|falls|gains|jumps|drops)\b`)

// NewChain builds the standard twelve-rule chain.
func NewChain(opts Options) *Chain {
	if opts.MinWords <= 0 {
		opts.MinWords = 2
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = 4
	}
	if opts.MinChars <= 0 {
		opts.MinChars = 5
	}
	if opts.Jargon == nil {
		opts.Jargon = NewDenylist(nil)
	}
	if opts.Generic == nil {
		opts.Generic = NewDenylist(nil)
	}
	if opts.Social == nil {
		opts.Social = NewMarkers(nil)
	}
	if opts.Firms == nil {
		opts.Firms = NewMarkers(nil)
	}
	if opts.MarketNoise == nil {
		opts.MarketNoise = NewMarkers(nil)
	}

	c := &Chain{}
	c.rules = []Rule{
		{"word_count", func(p Phrase, _ []string) bool {
			return len(p.Words) < opts.MinWords || len(p.Words) > opts.MaxWords
		}},
		{"jargon", func(p Phrase, _ []string) bool {
			return opts.Jargon.Contains(p.Lower)
		}},
		{"edge_stopword", func(p Phrase, _ []string) bool {
			return IsStopword(p.lower[0]) || IsStopword(p.lower[len(p.lower)-1])
		}},
		{"all_stopwords", func(p Phrase, _ []string) bool {
			for _, w := range p.lower {
				if !IsStopword(w) {
					return false
				}
			}
			return true
		}},
		{"social_marker", func(p Phrase, _ []string) bool {
			return opts.Social.MatchesAny(p.Lower)
		}},
		{"firm_marker", func(p Phrase, _ []string) bool {
			return opts.Firms.MatchesAny(p.Lower)
		}},
		{"numeric_only", func(p Phrase, _ []string) bool {
			for _, w := range p.Words {
				if !isDigits(w) {
					return false
				}
			}
			return true
		}},
		{"min_length", func(p Phrase, _ []string) bool {
			if len(p.Text) < opts.MinChars {
				return true
			}
			for _, w := range p.Words {
				if len(w) > 1 {
					return false
				}
			}
			return true
		}},
		{"generic_phrase", func(p Phrase, _ []string) bool {
			return opts.Generic.Contains(p.Lower)
		}},
		{"market_noise", func(p Phrase, _ []string) bool {
			return opts.MarketNoise.MatchesAny(p.Lower) || tickerVerbs.MatchString(p.Lower)
		}},
		{"person_heuristic", func(p Phrase, _ []string) bool {
			return looksLikePersonName(p)
		}},
		{"person_span", func(p Phrase, persons []string) bool {
			for _, name := range persons {
				if len(name) > 2 && strings.Contains(p.Lower, name) {
					return true
				}
			}
			return false
		}},
	}
	return c
}

// Valid reports whether the phrase survives every rule. persons is the set
// of lowercased personal-name spans detected in the source document; nil
// disables the span rule.
func (c *Chain) Valid(phrase string, persons []string) bool {
	_, ok := c.Check(phrase, persons)
	return ok
}

// Check runs the chain and returns the name of the rejecting rule, or
// ("", true) when the phrase is valid.
func (c *Chain) Check(phrase string, persons []string) (string, bool) {
	p := NewPhrase(phrase)
	if p.Text == "" {
		return "word_count", false
	}
	for _, r := range c.rules {
		if r.Reject(p, persons) {
			return r.Name, false
		}
	}
	return "", true
}

// looksLikePersonName flags 2-3 word phrases where every word is
// title-case (capital initial, lowercase rest), none is an acronym, and
// the first word is not an honorific. "John Smith" matches; "AI Act" and
// "Dr Smith" do not.
func looksLikePersonName(p Phrase) bool {
	if len(p.Words) < 2 || len(p.Words) > 3 {
		return false
	}
	for _, w := range p.Words {
		if isAllCaps(w) {
			return false
		}
		if !isTitleCase(w) {
			return false
		}
	}
	first := strings.TrimRight(p.lower[0], ".")
	if _, ok := personTitles[first]; ok {
		return false
	}
	return true
}

func isTitleCase(w string) bool {
	runes := []rune(w)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsLetter(r) && !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func isAllCaps(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter && len([]rune(w)) > 1
}

func isDigits(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
