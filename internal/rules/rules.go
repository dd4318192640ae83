// Package rules holds the keyword lists, delimiter sets and patterns that drive
// the local extraction pipeline. Tables are plain data: they can be dumped,
// overridden from YAML and tested independently of the stages that use them.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables is the editable form of every rule the pipeline consults.
// Order is significant wherever a slice is scanned for a first match.
type Tables struct {
	// Segmentation
	SplitWords       []string `yaml:"split_words"`
	SplitRunes       string   `yaml:"split_runes"`
	MinSegmentLength int      `yaml:"min_segment_length"`

	// Actionability
	ActionVerbs     []string `yaml:"action_verbs"`
	SarcasmPatterns []string `yaml:"sarcasm_patterns"`

	// Normalization
	FramingPrefixes []string `yaml:"framing_prefixes"`

	// Classification
	Priorities         []PriorityRule `yaml:"priorities"`
	DefaultPriority    string         `yaml:"default_priority"`
	Categories         []CategoryRule `yaml:"categories"`
	DefaultCategory    string         `yaml:"default_category"`
	DelegationPatterns []string       `yaml:"delegation_patterns"`
	NonNames           []string       `yaml:"non_names"`

	// Temporal
	TimesOfDay []TimeOfDay `yaml:"times_of_day"`
}

// PriorityRule assigns Priority when any keyword matches, or, when WithinDays is
// set, when the resolved due date is at most WithinDays calendar days after now.
type PriorityRule struct {
	Priority   string   `yaml:"priority"`
	Keywords   []string `yaml:"keywords,omitempty"`
	WithinDays *int     `yaml:"within_days,omitempty"`
}

// CategoryRule assigns Category when any keyword matches as a whole word
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// TimeOfDay maps a keyword like "evening" to a clock time
type TimeOfDay struct {
	Keyword string `yaml:"keyword"`
	Hour    int    `yaml:"hour"`
	Minute  int    `yaml:"minute"`
}

// Parse overlays a YAML document on the default tables. Lists present in the
// document replace the default lists; absent keys keep their defaults.
func Parse(data []byte) (Tables, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parse rules: %w", err)
	}
	return t, nil
}

// LoadFile reads rule overrides from a YAML file
func LoadFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read rules: %w", err)
	}
	return Parse(data)
}

// Marshal renders tables as YAML, suitable as a starting point for overrides
func (t Tables) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
