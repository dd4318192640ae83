package rules

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keywords matches whole-word occurrences of a keyword list, case-insensitively.
// Word boundaries are checked on the runes around a match without consuming
// them, so adjacent keywords ("morning evening") are both found.
type Keywords struct {
	re *regexp.Regexp
}

// keywordPattern builds a matcher for keywords, or nil when the list is empty
func keywordPattern(keywords []string) *Keywords {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(kw)))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	// Longest first so "right now" is tried before "right"
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return &Keywords{re: regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)}
}

// MatchString reports whether text contains any keyword as a whole word
func (k *Keywords) MatchString(text string) bool {
	return len(k.find(text, 1)) > 0
}

// FindAllIndex returns the byte spans of every whole-word keyword in text
func (k *Keywords) FindAllIndex(text string) [][2]int {
	return k.find(text, -1)
}

func (k *Keywords) find(text string, n int) [][2]int {
	var out [][2]int
	pos := 0
	for pos < len(text) && (n < 0 || len(out) < n) {
		loc := k.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if isBoundary(text, start, end) {
			out = append(out, [2]int{start, end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return out
}

func isBoundary(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordChar(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordChar(r) {
			return false
		}
	}
	return true
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
