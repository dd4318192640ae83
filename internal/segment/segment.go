// Package segment splits raw input into candidate task strings.
//
// Splitting happens on delimiter runes and standalone delimiter words, but never
// inside parentheses: "Buy groceries (milk, eggs, bread)" stays one segment. An
// unterminated "(" protects everything after it. A sarcasm match is protected
// from its start to the end of its sentence, so "Sure, whatever, I'll email
// boss" stays one segment and the filter rejects it whole.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vthunder/flowpilot/internal/rules"
)

// Segment is a candidate task substring with its byte span in the raw input
type Segment struct {
	Text  string
	Start int
	End   int
}

// Segmenter splits text using the delimiter tables in rules
type Segmenter struct {
	rules *rules.Compiled
}

// New creates a segmenter over compiled rule tables
func New(r *rules.Compiled) *Segmenter {
	return &Segmenter{rules: r}
}

// Split returns the segments of text in their original order. Empty and
// too-short segments are dropped.
func (s *Segmenter) Split(text string) []Segment {
	var out []Segment
	depth := 0
	segStart := 0
	zones := s.sarcasmZones(text)

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case inZone(zones, i):
			// protected
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
			// protected
		case s.rules.IsSplitRune(r) && splitsAt(text, i, r, size):
			out = s.appendSegment(out, text, segStart, i)
			segStart = i + size
		case isWordStart(text, i, r):
			end := wordEnd(text, i)
			if s.rules.IsSplitWord(text[i:end]) {
				out = s.appendSegment(out, text, segStart, i)
				segStart = end
			}
			i = end
			continue
		}
		i += size
	}
	return s.appendSegment(out, text, segStart, len(text))
}

func (s *Segmenter) appendSegment(out []Segment, text string, start, end int) []Segment {
	if start >= end {
		return out
	}
	raw := text[start:end]
	left := strings.TrimLeftFunc(raw, isResidue)
	lead := len(raw) - len(left)
	trimmed := strings.TrimRightFunc(left, isResidue)
	if utf8.RuneCountInString(trimmed) < s.rules.MinSegmentLength {
		return out
	}
	return append(out, Segment{
		Text:  trimmed,
		Start: start + lead,
		End:   start + lead + len(trimmed),
	})
}

type zone struct{ start, end int }

// sarcasmZones returns the spans from each sarcasm match to the end of its
// sentence
func (s *Segmenter) sarcasmZones(text string) []zone {
	var zones []zone
	for _, re := range s.rules.Sarcasm {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			zones = append(zones, zone{start: loc[0], end: sentenceEnd(text, loc[1])})
		}
	}
	return zones
}

func inZone(zones []zone, i int) bool {
	for _, z := range zones {
		if i >= z.start && i < z.end {
			return true
		}
	}
	return false
}

// sentenceEnd returns the index of the first sentence terminator at or after
// from, or len(text)
func sentenceEnd(text string, from int) int {
	for i := from; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch r {
		case '!', '?', '\n':
			return i
		case '.':
			if splitsAt(text, i, r, size) {
				return i
			}
		}
		i += size
	}
	return len(text)
}

// splitsAt filters out delimiter runes that are part of a token: decimal points
// ("5.5") and abbreviation dots ("a.m.", "e.g.", "U.S.A"). A period directly
// followed by a capital after a word ("boss.Call") still splits.
func splitsAt(text string, i int, r rune, size int) bool {
	if r != '.' {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[i+size:])
	if i == 0 {
		return true
	}
	prev, prevSize := utf8.DecodeLastRuneInString(text[:i])
	switch {
	case unicode.IsDigit(prev) && unicode.IsDigit(next):
		return false
	case unicode.IsLower(next):
		return false
	case unicode.IsLetter(next):
		return !singleLetter(text, i-prevSize, prev)
	}
	return true
}

// singleLetter reports whether the letter at i stands alone, as in "U.S"
func singleLetter(text string, i int, r rune) bool {
	if !unicode.IsLetter(r) {
		return false
	}
	if i == 0 {
		return true
	}
	before, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(before) && !unicode.IsDigit(before)
}

func isWordStart(text string, i int, r rune) bool {
	if !unicode.IsLetter(r) {
		return false
	}
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(prev)
}

func wordEnd(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) {
			break
		}
		i += size
	}
	return i
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}

// isResidue reports runes trimmed from segment edges
func isResidue(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', ';', '+', '.', '-', '–', '—', ':', '&', '*', '•', '!', '?':
		return true
	}
	return false
}
