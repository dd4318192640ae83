package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/vthunder/flowpilot/internal/task"
)

// Compiled is the validated, read-only form of Tables shared by all pipeline
// stages. It is safe for concurrent use.
type Compiled struct {
	splitWords  map[string]bool
	splitRunes  map[rune]bool
	actionVerbs map[string]bool
	nonNames    map[string]bool

	MinSegmentLength int
	Sarcasm          []*regexp.Regexp
	Delegation       []*regexp.Regexp
	FramingPrefixes  []string
	Priorities       []CompiledPriority
	DefaultPriority  task.Priority
	Categories       []CompiledCategory
	DefaultCategory  task.Category
	TimesOfDay       map[string]TimeOfDay
	TimeOfDayPattern *Keywords
}

// CompiledPriority is a PriorityRule with its keyword matcher built
type CompiledPriority struct {
	Priority   task.Priority
	Keywords   *Keywords // nil when the rule has no keywords
	NearTerm   bool
	WithinDays int
}

// CompiledCategory is a CategoryRule with its keyword matcher built
type CompiledCategory struct {
	Category task.Category
	Keywords *Keywords
}

// Compile validates tables and builds matchers. Errors here are configuration
// errors and never depend on input text.
func (t Tables) Compile() (*Compiled, error) {
	if t.MinSegmentLength < 1 {
		return nil, fmt.Errorf("min_segment_length must be at least 1, got %d", t.MinSegmentLength)
	}

	c := &Compiled{
		splitWords:       toSet(t.SplitWords),
		splitRunes:       make(map[rune]bool),
		actionVerbs:      toSet(t.ActionVerbs),
		nonNames:         toSet(t.NonNames),
		MinSegmentLength: t.MinSegmentLength,
		TimesOfDay:       make(map[string]TimeOfDay),
	}
	for _, r := range t.SplitRunes {
		c.splitRunes[r] = true
	}

	var err error
	if c.Sarcasm, err = compilePatterns(t.SarcasmPatterns, "(?i)"); err != nil {
		return nil, fmt.Errorf("sarcasm_patterns: %w", err)
	}
	if c.Delegation, err = compilePatterns(t.DelegationPatterns, ""); err != nil {
		return nil, fmt.Errorf("delegation_patterns: %w", err)
	}
	for _, re := range c.Delegation {
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("delegation pattern %q has no capture group", re.String())
		}
	}

	// Longest prefix first so "i have got to" wins over "i have to"
	c.FramingPrefixes = make([]string, 0, len(t.FramingPrefixes))
	for _, p := range t.FramingPrefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			c.FramingPrefixes = append(c.FramingPrefixes, p)
		}
	}
	sort.SliceStable(c.FramingPrefixes, func(i, j int) bool {
		return len(c.FramingPrefixes[i]) > len(c.FramingPrefixes[j])
	})

	for i, r := range t.Priorities {
		p, err := task.ParsePriority(r.Priority)
		if err != nil {
			return nil, fmt.Errorf("priorities[%d]: %w", i, err)
		}
		cp := CompiledPriority{Priority: p, Keywords: keywordPattern(r.Keywords)}
		if r.WithinDays != nil {
			if *r.WithinDays < 0 {
				return nil, fmt.Errorf("priorities[%d]: within_days must not be negative", i)
			}
			cp.NearTerm = true
			cp.WithinDays = *r.WithinDays
		}
		if cp.Keywords == nil && !cp.NearTerm {
			return nil, fmt.Errorf("priorities[%d]: rule needs keywords or within_days", i)
		}
		c.Priorities = append(c.Priorities, cp)
	}
	if c.DefaultPriority, err = task.ParsePriority(t.DefaultPriority); err != nil {
		return nil, fmt.Errorf("default_priority: %w", err)
	}

	for i, r := range t.Categories {
		cat, err := task.ParseCategory(r.Category)
		if err != nil {
			return nil, fmt.Errorf("categories[%d]: %w", i, err)
		}
		kw := keywordPattern(r.Keywords)
		if kw == nil {
			return nil, fmt.Errorf("categories[%d]: no keywords", i)
		}
		c.Categories = append(c.Categories, CompiledCategory{Category: cat, Keywords: kw})
	}
	if c.DefaultCategory, err = task.ParseCategory(t.DefaultCategory); err != nil {
		return nil, fmt.Errorf("default_category: %w", err)
	}

	keywords := make([]string, 0, len(t.TimesOfDay))
	for i, tod := range t.TimesOfDay {
		if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
			return nil, fmt.Errorf("times_of_day[%d]: invalid time %02d:%02d", i, tod.Hour, tod.Minute)
		}
		kw := strings.ToLower(strings.TrimSpace(tod.Keyword))
		if kw == "" {
			return nil, fmt.Errorf("times_of_day[%d]: empty keyword", i)
		}
		c.TimesOfDay[kw] = tod
		keywords = append(keywords, kw)
	}
	c.TimeOfDayPattern = keywordPattern(keywords)

	return c, nil
}

// IsSplitWord reports whether a lowercased word separates tasks
func (c *Compiled) IsSplitWord(word string) bool {
	return c.splitWords[strings.ToLower(word)]
}

// IsSplitRune reports whether r separates tasks
func (c *Compiled) IsSplitRune(r rune) bool {
	return c.splitRunes[r]
}

// IsActionVerb reports whether word is a known imperative verb
func (c *Compiled) IsActionVerb(word string) bool {
	return c.actionVerbs[strings.ToLower(word)]
}

// IsNonName reports whether word must never be taken as an assignee
func (c *Compiled) IsNonName(word string) bool {
	return c.nonNames[strings.ToLower(word)]
}

var (
	defaultOnce     sync.Once
	defaultCompiled *Compiled
)

// DefaultCompiled returns the compiled built-in tables. The built-in tables are
// covered by tests, so a compile failure is a programming error.
func DefaultCompiled() *Compiled {
	defaultOnce.Do(func() {
		c, err := Default().Compile()
		if err != nil {
			panic(fmt.Sprintf("rules: default tables do not compile: %v", err))
		}
		defaultCompiled = c
	})
	return defaultCompiled
}

func compilePatterns(patterns []string, flags string) ([]*regexp.Regexp, error) {
	result := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(flags + p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		result = append(result, re)
	}
	return result, nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}
