package filter

// functionalStopwords are articles, prepositions, pronouns and auxiliaries.
// A phrase that starts or ends with one of these is a fragment, not a term.
var functionalStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {},
	"been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {},
	"can": {}, "this": {}, "that": {}, "these": {}, "those": {}, "it": {},
	"its": {}, "we": {}, "our": {}, "you": {}, "your": {}, "they": {},
	"their": {}, "he": {}, "she": {}, "him": {}, "her": {}, "i": {},
	"my": {}, "me": {},
}

// personTitles are honorifics: a title-case phrase led by one of these is
// addressed to a person but is not itself a personal name.
var personTitles = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {},
}

// IsStopword reports whether the lowercased word is a functional stopword.
func IsStopword(word string) bool {
	_, ok := functionalStopwords[word]
	return ok
}
