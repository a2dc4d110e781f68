package filter

import "strings"

// Denylist is a curated exact-match exclusion list. The same mechanism
// serves the phrase-level jargon list, the generic-phrase list and the
// emergence view's established-terms list; they differ only in content
// and in the word counts of their entries.
type Denylist struct {
	exact    map[string]struct{}
	maxWords int
}

// NewDenylist builds a denylist from entries. Matching is case-insensitive
// and whitespace-normalized.
func NewDenylist(entries []string) *Denylist {
	d := &Denylist{exact: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		key := normalizeKey(e)
		if key == "" {
			continue
		}
		d.exact[key] = struct{}{}
		if n := len(strings.Fields(key)); n > d.maxWords {
			d.maxWords = n
		}
	}
	return d
}

// Contains reports whether the phrase is an exact entry.
func (d *Denylist) Contains(phrase string) bool {
	_, ok := d.exact[normalizeKey(phrase)]
	return ok
}

// MaxWords is the word count of the longest entry.
func (d *Denylist) MaxWords() int { return d.maxWords }

// Len returns the number of entries.
func (d *Denylist) Len() int { return len(d.exact) }

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Markers is a substring-match exclusion list: a phrase containing any
// marker is rejected. Used for social/navigation boilerplate, firm names
// and market-movement noise.
type Markers struct {
	terms []string
}

// NewMarkers builds a marker list. Markers are lowercased.
func NewMarkers(terms []string) *Markers {
	m := &Markers{terms: make([]string, 0, len(terms))}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			m.terms = append(m.terms, t)
		}
	}
	return m
}

// MatchesAny reports whether the lowercased phrase contains any marker.
func (m *Markers) MatchesAny(lower string) bool {
	for _, t := range m.terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
