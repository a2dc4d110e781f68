package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	urlRe    = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRe  = regexp.MustCompile(`\S+@\S+`)
	entityRe = regexp.MustCompile(`&#?x?[0-9a-fA-F]+;|&\w+;`)
)

// skipElements are HTML elements whose text is never document content.
var skipElements = map[string]struct{}{
	"script": {}, "style": {}, "head": {}, "noscript": {},
}

// StripHTML reduces markup to its visible text. Feed content routinely
// arrives with embedded tags; extraction wants prose only. Input that is
// not HTML passes through unchanged apart from entity decoding.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return entityRe.ReplaceAllString(s, " ")
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if _, skip := skipElements[string(name)]; skip {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if _, skip := skipElements[string(name)]; skip && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// CleanText prepares raw document text for extraction: markup, URLs and
// email addresses are removed and whitespace is collapsed.
func CleanText(s string) string {
	s = StripHTML(s)
	s = urlRe.ReplaceAllString(s, " ")
	s = emailRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
