// Package filter decides whether a segment carries an actionable task.
package filter

import (
	"strings"
	"unicode"

	"github.com/vthunder/flowpilot/internal/rules"
)

// Reason records which rule produced a verdict
type Reason string

const (
	ReasonSarcasm    Reason = "sarcasm"     // hedging / sarcasm template
	ReasonVerb       Reason = "action_verb" // known imperative verb
	ReasonDelegation Reason = "delegation"  // "tell Sarah", "assign X to Y"
	ReasonTemporal   Reason = "temporal"    // date or clock time
	ReasonTagged     Reason = "tagged_verb" // POS tagger saw a leading verb
	ReasonNoSignal   Reason = ""            // nothing actionable
)

// Verdict is the filter's decision for one segment
type Verdict struct {
	Actionable bool
	Sarcastic  bool
	Reason     Reason
}

// TemporalDetector reports whether text contains a date or time expression
type TemporalDetector interface {
	Contains(text string) bool
}

// VerbTagger reports whether text starts with a base-form verb
type VerbTagger interface {
	LeadsWithVerb(text string) bool
}

// Filter applies the actionability rules in fixed precedence: sarcasm,
// action verb, delegation, temporal expression, tagged verb.
type Filter struct {
	rules    *rules.Compiled
	temporal TemporalDetector
	tagger   VerbTagger
}

// New creates a filter. temporal and tagger may be nil to disable those checks.
func New(r *rules.Compiled, temporal TemporalDetector, tagger VerbTagger) *Filter {
	return &Filter{rules: r, temporal: temporal, tagger: tagger}
}

// Check classifies a segment
func (f *Filter) Check(text string) Verdict {
	text = strings.TrimSpace(text)
	if text == "" {
		return Verdict{}
	}

	// Sarcasm wins even when a verb is present
	if matchesAny(text, f.rules.Sarcasm) {
		return Verdict{Sarcastic: true, Reason: ReasonSarcasm}
	}

	for _, w := range words(text) {
		if f.rules.IsActionVerb(w) {
			return Verdict{Actionable: true, Reason: ReasonVerb}
		}
	}

	if f.hasDelegation(text) {
		return Verdict{Actionable: true, Reason: ReasonDelegation}
	}

	if f.temporal != nil && f.temporal.Contains(text) {
		return Verdict{Actionable: true, Reason: ReasonTemporal}
	}

	if f.tagger != nil && f.tagger.LeadsWithVerb(text) {
		return Verdict{Actionable: true, Reason: ReasonTagged}
	}

	return Verdict{Reason: ReasonNoSignal}
}

func (f *Filter) hasDelegation(text string) bool {
	for _, re := range f.rules.Delegation {
		m := re.FindStringSubmatch(text)
		if m != nil && !f.rules.IsNonName(m[1]) {
			return true
		}
	}
	return false
}

// words splits text into lowercase word tokens, keeping inner hyphens and apostrophes
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\'' && r != '’'
	})
}
