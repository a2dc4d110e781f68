package filter

import "testing"

func newTestChain() *Chain {
	return NewChain(Options{
		MinWords:    2,
		MaxWords:    4,
		MinChars:    5,
		Jargon:      NewDenylist([]string{"last week", "press release"}),
		Generic:     NewDenylist([]string{"new report", "good quarter"}),
		Social:      NewMarkers([]string{"click here", "sign up"}),
		Firms:       NewMarkers([]string{"goldman sachs", "sequoia"}),
		MarketNoise: NewMarkers([]string{"52-week high"}),
	})
}

func TestChainAcceptsValidPhrases(t *testing.T) {
	c := newTestChain()
	valid := []string{
		"agentic ai",
		"embedded payments",
		"vector database",
		"retrieval augmented generation",
	}
	for _, phrase := range valid {
		if rule, ok := c.Check(phrase, nil); !ok {
			t.Errorf("Check(%q) rejected by %s, want accept", phrase, rule)
		}
	}
}

func TestChainRejectionRules(t *testing.T) {
	c := newTestChain()
	cases := []struct {
		phrase string
		rule   string
	}{
		{"ai", "word_count"},
		{"one two three four five", "word_count"},
		{"last week", "jargon"},
		{"the platform", "edge_stopword"},
		{"platform the", "edge_stopword"},
		{"of the", "edge_stopword"},
		{"click here now", "social_marker"},
		{"goldman sachs report", "firm_marker"},
		{"2024 2025", "numeric_only"},
		{"x y", "min_length"},
		{"new report", "generic_phrase"},
		{"52-week high today", "market_noise"},
		{"nvidia stock surges", "market_noise"},
		{"John Smith", "person_heuristic"},
	}
	for _, tc := range cases {
		rule, ok := c.Check(tc.phrase, nil)
		if ok {
			t.Errorf("Check(%q) accepted, want rejection by %s", tc.phrase, tc.rule)
			continue
		}
		if rule != tc.rule {
			t.Errorf("Check(%q) rejected by %s, want %s", tc.phrase, rule, tc.rule)
		}
	}
}

func TestPersonHeuristic(t *testing.T) {
	cases := []struct {
		phrase string
		person bool
	}{
		{"John Smith", true},
		{"Mary Jane Watson", true},
		{"Dr Smith", false},               // honorific prefix
		{"AI Act", false},                 // acronym word
		{"machine learning", false},       // lowercase
		{"Digital twin", false},           // mixed case
		{"John Smith Jones Brown", false}, // too long
	}
	for _, tc := range cases {
		got := looksLikePersonName(NewPhrase(tc.phrase))
		if got != tc.person {
			t.Errorf("looksLikePersonName(%q) = %v, want %v", tc.phrase, got, tc.person)
		}
	}
}

func TestPersonSpanRule(t *testing.T) {
	c := newTestChain()
	persons := []string{"sam altman"}

	if rule, ok := c.Check("sam altman interview", persons); ok || rule != "person_span" {
		t.Errorf("Check with person span = (%s, %v), want (person_span, false)", rule, ok)
	}
	if _, ok := c.Check("sam altman interview", nil); !ok {
		// Without spans only the heuristic applies, and a lowercase
		// phrase does not look like a name.
		t.Error("Check without person spans should accept lowercase phrase")
	}
}

func TestChainEmptyInput(t *testing.T) {
	c := newTestChain()
	if _, ok := c.Check("", nil); ok {
		t.Error("Check(\"\") should reject")
	}
	if _, ok := c.Check("   ", nil); ok {
		t.Error("Check(whitespace) should reject")
	}
}

func TestDenylistNormalization(t *testing.T) {
	d := NewDenylist([]string{"  Machine   Learning ", "deep learning"})
	if !d.Contains("machine learning") {
		t.Error("Contains should normalize whitespace and case")
	}
	if !d.Contains("MACHINE LEARNING") {
		t.Error("Contains should be case-insensitive")
	}
	if d.Contains("machine") {
		t.Error("Contains should not match partial phrases")
	}
	if d.MaxWords() != 2 {
		t.Errorf("MaxWords = %d, want 2", d.MaxWords())
	}
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
}

func TestMarkersSubstring(t *testing.T) {
	m := NewMarkers([]string{"click here", "Privacy Policy"})
	if !m.MatchesAny("please click here to continue") {
		t.Error("MatchesAny should match embedded marker")
	}
	if !m.MatchesAny("our privacy policy changed") {
		t.Error("MatchesAny should lowercase markers")
	}
	if m.MatchesAny("clean phrase") {
		t.Error("MatchesAny should not match unrelated text")
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("the") {
		t.Error("IsStopword(the) = false")
	}
	if IsStopword("payments") {
		t.Error("IsStopword(payments) = true")
	}
}
