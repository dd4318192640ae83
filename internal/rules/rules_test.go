package rules

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vthunder/flowpilot/internal/task"
)

func TestDefaultTablesCompile(t *testing.T) {
	c, err := Default().Compile()
	if err != nil {
		t.Fatalf("default tables failed to compile: %v", err)
	}
	if DefaultCompiled() == nil {
		t.Fatal("DefaultCompiled returned nil")
	}

	for _, w := range []string{"and", "AND", "then", "also", "or"} {
		if !c.IsSplitWord(w) {
			t.Errorf("%q should be a split word", w)
		}
	}
	for _, r := range []rune{',', '+', '.', ';', '\n'} {
		if !c.IsSplitRune(r) {
			t.Errorf("%q should be a split rune", r)
		}
	}
	if c.IsSplitRune('(') || c.IsSplitRune(':') {
		t.Error("parentheses and colons must not split")
	}
	for _, v := range []string{"call", "Email", "buy", "finish", "submit", "schedule", "send", "pay", "review", "clean", "meet"} {
		if !c.IsActionVerb(v) {
			t.Errorf("%q should be an action verb", v)
		}
	}
}

func TestCategoryTableOrder(t *testing.T) {
	c := DefaultCompiled()
	want := []task.Category{task.CategoryMeeting, task.CategoryWork, task.CategoryPersonal}
	if len(c.Categories) != len(want) {
		t.Fatalf("expected %d category rules, got %d", len(want), len(c.Categories))
	}
	for i, cat := range want {
		if c.Categories[i].Category != cat {
			t.Errorf("category rule %d = %s, want %s", i, c.Categories[i].Category, cat)
		}
	}
	if c.DefaultCategory != task.CategoryPersonal {
		t.Errorf("default category = %s", c.DefaultCategory)
	}
}

func TestPriorityTableOrder(t *testing.T) {
	c := DefaultCompiled()
	want := []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow}
	for i, p := range want {
		if c.Priorities[i].Priority != p {
			t.Errorf("priority rule %d = %s, want %s", i, c.Priorities[i].Priority, p)
		}
	}
	if !c.Priorities[1].NearTerm || c.Priorities[1].WithinDays != 1 {
		t.Errorf("medium rule should be near-term within 1 day: %+v", c.Priorities[1])
	}
	if c.DefaultPriority != task.PriorityMedium {
		t.Errorf("default priority = %s", c.DefaultPriority)
	}
}

func TestKeywordPatternWholeWord(t *testing.T) {
	re := keywordPattern([]string{"night", "call", "1:1"})
	tests := []struct {
		text string
		want bool
	}{
		{"gym at night", true},
		{"tonight", false},
		{"Call Sarah", true},
		{"recall the order", false},
		{"1:1 with manager", true},
		{"nothing here", false},
	}
	for _, tt := range tests {
		if got := re.MatchString(tt.text); got != tt.want {
			t.Errorf("match(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
	if keywordPattern(nil) != nil {
		t.Error("empty keyword list should produce nil pattern")
	}
}

func TestKeywordsFindAllAdjacent(t *testing.T) {
	k := keywordPattern([]string{"morning", "evening", "right", "right now"})
	tests := []struct {
		text string
		want []string
	}{
		{"morning evening", []string{"morning", "evening"}},
		{"Morning,evening", []string{"Morning", "evening"}},
		{"do it right now", []string{"right now"}},
		{"brightnow mornings", nil},
		{"café evening", []string{"evening"}},
	}
	for _, tt := range tests {
		var got []string
		for _, loc := range k.FindAllIndex(tt.text) {
			got = append(got, tt.text[loc[0]:loc[1]])
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FindAllIndex(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFramingPrefixesLongestFirst(t *testing.T) {
	c := DefaultCompiled()
	for i := 1; i < len(c.FramingPrefixes); i++ {
		if len(c.FramingPrefixes[i]) > len(c.FramingPrefixes[i-1]) {
			t.Fatalf("prefixes not sorted by length: %q before %q", c.FramingPrefixes[i-1], c.FramingPrefixes[i])
		}
	}
}

func TestParseOverlay(t *testing.T) {
	doc := `
split_words: [and, then]
default_category: Work
categories:
  - category: Meeting
    keywords: [standup]
`
	tables, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(tables.SplitWords) != 2 {
		t.Errorf("split words should be replaced, got %v", tables.SplitWords)
	}
	if len(tables.ActionVerbs) != len(Default().ActionVerbs) {
		t.Error("absent keys should keep defaults")
	}
	c, err := tables.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if c.IsSplitWord("or") {
		t.Error("'or' was removed by the overlay")
	}
	if c.DefaultCategory != task.CategoryWork {
		t.Errorf("default category = %s", c.DefaultCategory)
	}
	if len(c.Categories) != 1 {
		t.Errorf("expected 1 category rule, got %d", len(c.Categories))
	}
}

func TestCompileRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *Tables)
		errMsg string
	}{
		{"bad priority", func(t *Tables) { t.Priorities[0].Priority = "p0" }, "priorities[0]"},
		{"bad category", func(t *Tables) { t.Categories[0].Category = "Errands" }, "categories[0]"},
		{"bad regex", func(t *Tables) { t.SarcasmPatterns = []string{"(unclosed"} }, "sarcasm_patterns"},
		{"delegation without group", func(t *Tables) { t.DelegationPatterns = []string{`tell \w+`} }, "capture group"},
		{"bad hour", func(t *Tables) { t.TimesOfDay[0].Hour = 25 }, "times_of_day[0]"},
		{"zero min length", func(t *Tables) { t.MinSegmentLength = 0 }, "min_segment_length"},
		{"empty priority rule", func(t *Tables) { t.Priorities = []PriorityRule{{Priority: "low"}} }, "needs keywords"},
		{"bad default", func(t *Tables) { t.DefaultPriority = "none" }, "default_priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := Default()
			tt.mutate(&tables)
			_, err := tables.Compile()
			if err == nil {
				t.Fatal("expected compile error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q should mention %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadFileRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	tables, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, err := tables.Compile(); err != nil {
		t.Fatalf("dumped defaults should compile: %v", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
