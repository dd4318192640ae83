// Package normalize turns an actionable segment into a task title.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vthunder/flowpilot/internal/rules"
)

// trailing punctuation replaced by the single terminal period
const terminalPunct = ".!?,;:…"

// Normalizer strips first-person framing and fixes casing and punctuation
type Normalizer struct {
	rules *rules.Compiled
}

// New creates a normalizer using the framing prefixes in r
func New(r *rules.Compiled) *Normalizer {
	return &Normalizer{rules: r}
}

// Title returns the normalized title for a segment: framing stripped,
// whitespace collapsed, first letter capitalized, exactly one trailing period.
// The casing of everything after the first letter is preserved.
func (n *Normalizer) Title(segment string) string {
	s := n.StripFraming(segment)
	if strings.TrimFunc(s, isTrimmable) == "" {
		s = segment
	}

	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRightFunc(s, isTrimmable)
	if s == "" {
		return ""
	}
	return capitalizeFirst(s) + "."
}

// StripFraming removes leading first-person phrases ("I want to", "let me"),
// repeatedly, so "Please let me call Ann" becomes "call Ann".
func (n *Normalizer) StripFraming(text string) string {
	text = strings.TrimSpace(text)
	for {
		stripped := false
		for _, p := range n.rules.FramingPrefixes {
			consumed, ok := hasPrefixFold(text, p)
			if !ok {
				continue
			}
			rest := text[consumed:]
			if r, _ := utf8.DecodeRuneInString(rest); rest != "" && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				continue // prefix is part of a longer word
			}
			text = strings.TrimLeftFunc(rest, func(r rune) bool {
				return unicode.IsSpace(r) || r == ',' || r == ':'
			})
			stripped = true
			break
		}
		if !stripped || text == "" {
			return text
		}
	}
}

// hasPrefixFold reports whether text starts with prefix, ignoring case and
// apostrophe style, and returns the number of bytes of text consumed
func hasPrefixFold(text, prefix string) (int, bool) {
	i := 0
	for _, pr := range prefix {
		if i >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[i:])
		if foldRune(tr) != foldRune(pr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

func foldRune(r rune) rune {
	if r == '’' {
		return '\''
	}
	return unicode.ToLower(r)
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(terminalPunct, r)
}

// capitalizeFirst uppercases the first letter, leaving any leading
// non-letters (e.g. an opening parenthesis) alone
func capitalizeFirst(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) {
			return s[:i] + string(unicode.ToUpper(r)) + s[i+utf8.RuneLen(r):]
		}
	}
	return s
}
