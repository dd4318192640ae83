package temporal

import (
	"testing"
	"time"

	"github.com/vthunder/flowpilot/internal/rules"
)

// Wednesday, 10:00 UTC
var now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func TestResolve(t *testing.T) {
	r := New(rules.DefaultCompiled())

	tests := []struct {
		text string
		want string // "" means nil
	}{
		// relative days
		{"Email boss tomorrow", "2026-10-15"},
		{"finish report today", "2026-10-14"},
		{"pay rent tmrw", "2026-10-15"},
		{"next friday", "2026-10-16"},
		{"update my resume by Friday", "2026-10-16"},
		{"call on wednesday", "2026-10-21"},
		{"this week", "2026-10-18"},
		{"next week", "2026-10-19"},
		{"in 3 days", "2026-10-17"},
		{"in two weeks", "2026-10-28"},
		{"renew passport in a week", "2026-10-21"},

		// explicit dates
		{"due 2026-11-02", "2026-11-02"},
		{"party 12/25", "2026-12-25"},
		{"taxes 1/5", "2027-01-05"},
		{"taxes 1/5/2028", "2028-01-05"},
		{"bogus 2/30", ""},

		// clock times
		{"Email boss tomorrow at 2pm", "2026-10-15T14:00:00Z"},
		{"gym 6pm", "2026-10-14T18:00:00Z"},
		{"gym 6 pm", "2026-10-14T18:00:00Z"},
		{"standup 3:30pm", "2026-10-14T15:30:00Z"},
		{"meeting at 14:00", "2026-10-14T14:00:00Z"},
		{"pay fee at 3 p.m", "2026-10-14T15:00:00Z"},
		{"call at 12am", "2026-10-14T00:00:00Z"},
		{"lunch at 12pm", "2026-10-14T12:00:00Z"},
		{"invalid 13pm", ""},

		// no rollover for passed times
		{"submit report today at 9am", "2026-10-14T09:00:00Z"},

		// time-of-day keywords
		{"call mom tomorrow evening", "2026-10-15T18:00:00Z"},
		{"monday morning standup", "2026-10-19T09:00:00Z"},
		{"walk dog tonight", "2026-10-14T21:00:00Z"},
		{"lunch at noon", "2026-10-14T12:00:00Z"},
		{"dinner at 7pm tonight", "2026-10-14T19:00:00Z"},

		// binding: time goes to the nearest date
		{"tomorrow 9am or friday 5pm", "2026-10-15T09:00:00Z"},

		// nothing
		{"call Sarah", ""},
		{"buy 2 apples", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := r.Resolve(tt.text, now)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Resolve(%q) = %s, want nil", tt.text, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Resolve(%q) = nil, want %s", tt.text, tt.want)
			}
			if got.String() != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveDateOnlyHasNoTime(t *testing.T) {
	r := New(rules.DefaultCompiled())
	got := r.Resolve("Email boss tomorrow", now)
	if got == nil || got.HasTime {
		t.Fatalf("expected date-only value, got %+v", got)
	}
	got = r.Resolve("gym 6pm", now)
	if got == nil || !got.HasTime {
		t.Fatalf("expected date-time value, got %+v", got)
	}
}

func TestResolveKeepsLocation(t *testing.T) {
	r := New(rules.DefaultCompiled())
	loc := time.FixedZone("PDT", -7*3600)
	local := time.Date(2026, 10, 14, 23, 30, 0, 0, loc)

	got := r.Resolve("call mom tomorrow at 8am", local)
	if got == nil {
		t.Fatal("expected due date")
	}
	if got.String() != "2026-10-15T08:00:00-07:00" {
		t.Errorf("got %s", got)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := New(rules.DefaultCompiled())
	first := r.Resolve("meet client next tuesday at 10:15", now)
	for i := 0; i < 10; i++ {
		again := r.Resolve("meet client next tuesday at 10:15", now)
		if again == nil || again.String() != first.String() {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
	if first.String() != "2026-10-20T10:15:00Z" {
		t.Errorf("got %s", first)
	}
}

func TestContains(t *testing.T) {
	r := New(rules.DefaultCompiled())
	tests := []struct {
		text string
		want bool
	}{
		{"gym 6pm", true},
		{"tomorrow", true},
		{"friday", true},
		{"at 14:00", true},
		{"good morning", false},
		{"call Sarah", false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.text); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNextWeekdayStrictlyAfter(t *testing.T) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		got := nextWeekday(now, wd)
		if got.Weekday() != wd {
			t.Errorf("nextWeekday(%s) landed on %s", wd, got.Weekday())
		}
		days := got.Sub(now).Hours() / 24
		if days <= 0 || days > 7 {
			t.Errorf("nextWeekday(%s) is %.1f days away", wd, days)
		}
	}
}
