package filter

import (
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/prose/v3"
)

// ProseTagger uses the prose part-of-speech tagger to spot imperatives that are
// missing from the action verb table ("Mow the lawn")
type ProseTagger struct{}

// NewProseTagger creates a prose-backed VerbTagger
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

// LeadsWithVerb reports whether the first token is tagged VB (base form verb)
func (p *ProseTagger) LeadsWithVerb(text string) bool {
	// Sentence-initial capitals get tagged as proper nouns
	if r, size := utf8.DecodeRuneInString(text); r != utf8.RuneError {
		text = string(unicode.ToLower(r)) + text[size:]
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		return false
	}
	tokens := doc.Tokens()
	if len(tokens) == 0 {
		return false
	}
	return tokens[0].Tag == "VB"
}
