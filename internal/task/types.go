// Package task defines the records produced by task extraction: tasks,
// clarification requests and the result bundle that carries both.
package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency class of a task
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority converts a case-insensitive name to a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Category is the life area a task belongs to
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryMeeting  Category = "Meeting"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryMeeting:
		return true
	}
	return false
}

// ParseCategory converts a case-insensitive name to a Category
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work":
		return CategoryWork, nil
	case "personal":
		return CategoryPersonal, nil
	case "meeting":
		return CategoryMeeting, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Engine names, reported on every result
const (
	EngineLocal  = "local"
	EngineRemote = "remote"
)

// ClarificationQuestion is asked for every task without a due date
const ClarificationQuestion = "When is this due?"

// Task is a single schedulable item extracted from free text
type Task struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	OriginalText string   `json:"original_text"`
	DueDate      *DueDate `json:"due_date"`
	Priority     Priority `json:"priority"`
	Category     Category `json:"category"`
	Assignee     string   `json:"assignee,omitempty"`
	IsClarified  bool     `json:"is_clarified"`
	IsSarcastic  bool     `json:"is_sarcastic"`
}

// Clarification asks the user for information a task is missing
type Clarification struct {
	ID        string `json:"id"`
	TaskTitle string `json:"task_title"`
	Question  string `json:"question"`
}

// ExtractionResult is the output of one extraction call
type ExtractionResult struct {
	Tasks          []Task          `json:"tasks"`
	Clarifications []Clarification `json:"clarifications"`
	Engine         string          `json:"engine"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
}

// NewResult returns an empty result produced by the named engine
func NewResult(engine string) *ExtractionResult {
	return &ExtractionResult{
		Tasks:          []Task{},
		Clarifications: []Clarification{},
		Engine:         engine,
	}
}

// MarshalJSON always emits arrays for tasks and clarifications, never null
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	type plain ExtractionResult
	if r.Tasks == nil {
		r.Tasks = []Task{}
	}
	if r.Clarifications == nil {
		r.Clarifications = []Clarification{}
	}
	return json.Marshal(plain(r))
}

// DueDate is an absolute due date, optionally with a time of day
type DueDate struct {
	Time    time.Time
	HasTime bool
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
)

// Date returns a date-only due date at midnight in t's location
func Date(t time.Time) DueDate {
	y, m, d := t.Date()
	return DueDate{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// DateTime returns a due date with a time of day
func DateTime(t time.Time) DueDate {
	return DueDate{Time: t.Truncate(time.Minute), HasTime: true}
}

// String formats as YYYY-MM-DD or RFC 3339
func (d DueDate) String() string {
	if d.HasTime {
		return d.Time.Format(DateTimeLayout)
	}
	return d.Time.Format(DateLayout)
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("due date must be a string: %w", err)
	}
	parsed, err := ParseDueDate(s, time.Local)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// dateTimeLayouts are accepted in addition to RFC 3339 when parsing
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDueDate parses a date-only or date-time string. Values without a zone are
// interpreted in loc.
func ParseDueDate(s string, loc *time.Location) (DueDate, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return DueDate{Time: t}, nil
	}
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return DueDate{Time: t, HasTime: true}, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return DueDate{Time: t, HasTime: true}, nil
		}
	}
	return DueDate{}, fmt.Errorf("unrecognized due date %q", s)
}
