package filter

import (
	"testing"

	"github.com/vthunder/flowpilot/internal/rules"
	"github.com/vthunder/flowpilot/internal/temporal"
)

// stubTagger treats a fixed set of first words as verbs
type stubTagger struct {
	verbs map[string]bool
	calls int
}

func (s *stubTagger) LeadsWithVerb(text string) bool {
	s.calls++
	ws := words(text)
	return len(ws) > 0 && s.verbs[ws[0]]
}

func newTestFilter(tagger VerbTagger) *Filter {
	r := rules.DefaultCompiled()
	return New(r, temporal.New(r), tagger)
}

func TestCheck(t *testing.T) {
	f := newTestFilter(nil)

	tests := []struct {
		text       string
		actionable bool
		sarcastic  bool
		reason     Reason
	}{
		{"Email boss", true, false, ReasonVerb},
		{"call Sarah", true, false, ReasonVerb},
		{"BUY groceries (milk, eggs, bread)", true, false, ReasonVerb},
		{"I want to update my resume by Friday", true, false, ReasonVerb},
		{"gym 6pm", true, false, ReasonTemporal},
		{"dentist tomorrow", true, false, ReasonTemporal},
		{"Have John draft the memo", true, false, ReasonVerb},
		{"Sarah needs the slides (ask Ben)", true, false, ReasonVerb},

		// sarcasm beats verbs
		{"Yeah right I'll do this in 5 minutes", false, true, ReasonSarcasm},
		{"I'll do this in 5 minutes", false, true, ReasonSarcasm},
		{"yeah right, clean my room", false, true, ReasonSarcasm},
		{"sure whatever", false, true, ReasonSarcasm},
		{"I'll clean the garage when pigs fly", false, true, ReasonSarcasm},
		{"finish the novel in a million years", false, true, ReasonSarcasm},

		// no signal
		{"the weather is nice", false, false, ReasonNoSignal},
		{"good morning", false, false, ReasonNoSignal},
		{"whatever", false, false, ReasonNoSignal},
		{"", false, false, ReasonNoSignal},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := f.Check(tt.text)
			if got.Actionable != tt.actionable || got.Sarcastic != tt.sarcastic || got.Reason != tt.reason {
				t.Errorf("Check(%q) = %+v, want actionable=%v sarcastic=%v reason=%q",
					tt.text, got, tt.actionable, tt.sarcastic, tt.reason)
			}
		})
	}
}

func TestDelegationWithoutVerb(t *testing.T) {
	tables := rules.Default()
	tables.ActionVerbs = []string{"buy"}
	c, err := tables.Compile()
	if err != nil {
		t.Fatal(err)
	}
	f := New(c, nil, nil)

	if got := f.Check("Tell Priya the news"); got.Reason != ReasonDelegation {
		t.Errorf("expected delegation verdict, got %+v", got)
	}
	if got := f.Check("tell me a joke"); got.Actionable {
		t.Errorf("pronouns are not assignees, got %+v", got)
	}
}

func TestTaggerIsLastResort(t *testing.T) {
	tagger := &stubTagger{verbs: map[string]bool{"mow": true}}
	f := newTestFilter(tagger)

	if got := f.Check("Mow the lawn"); !got.Actionable || got.Reason != ReasonTagged {
		t.Errorf("expected tagged verb verdict, got %+v", got)
	}

	tagger.calls = 0
	f.Check("call mom")
	f.Check("Yeah right I'll do this in 5 minutes")
	if tagger.calls != 0 {
		t.Errorf("tagger should not run when earlier rules decide, ran %d times", tagger.calls)
	}

	if got := f.Check("lawn is long"); got.Actionable {
		t.Errorf("expected non-actionable, got %+v", got)
	}
}

func TestProseTagger(t *testing.T) {
	p := NewProseTagger()

	// prose's tags are statistical, so only the unambiguous case is asserted
	if p.LeadsWithVerb("The weather is nice today") {
		t.Error("determiner-led sentence should not lead with a verb")
	}
	for _, text := range []string{"Mow the lawn", "Vacuum the stairs", "Sharpen the knives"} {
		t.Logf("LeadsWithVerb(%q) = %v", text, p.LeadsWithVerb(text))
	}
	if p.LeadsWithVerb("") {
		t.Error("empty text has no verb")
	}
}
