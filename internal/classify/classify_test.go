package classify

import (
	"testing"
	"time"

	"github.com/vthunder/flowpilot/internal/rules"
	"github.com/vthunder/flowpilot/internal/task"
)

var now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func due(days int) *task.DueDate {
	d := task.Date(now.AddDate(0, 0, days))
	return &d
}

func TestPriority(t *testing.T) {
	c := New(rules.DefaultCompiled())

	tests := []struct {
		title string
		due   *task.DueDate
		want  task.Priority
	}{
		{"Submit report ASAP.", nil, task.PriorityHigh},
		{"Fix the urgent bug.", nil, task.PriorityHigh},
		{"Call the plumber right away.", nil, task.PriorityHigh},
		{"Email boss.", due(0), task.PriorityMedium},
		{"Email boss.", due(1), task.PriorityMedium},
		{"Maybe clean the garage.", nil, task.PriorityLow},
		{"Read that book sometime.", nil, task.PriorityLow},
		{"Eventually renew passport.", due(30), task.PriorityLow},
		{"Buy milk.", nil, task.PriorityMedium},
		{"Buy milk.", due(10), task.PriorityMedium},

		// high beats low when both appear
		{"Urgent, but maybe later.", nil, task.PriorityHigh},
		// near-term beats low
		{"Maybe call mom.", due(1), task.PriorityMedium},
		// past due dates are not near-term
		{"Later file taxes.", due(-2), task.PriorityLow},
		// substring is not a keyword
		{"Update the laterals.", nil, task.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := c.Priority(tt.title, tt.due, now); got != tt.want {
				t.Errorf("Priority(%q) = %s, want %s", tt.title, got, tt.want)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	c := New(rules.DefaultCompiled())

	tests := []struct {
		title string
		want  task.Category
	}{
		{"Email boss.", task.CategoryWork},
		{"Finish the quarterly report.", task.CategoryWork},
		{"Update my resume by Friday.", task.CategoryWork},
		{"Call Sarah.", task.CategoryMeeting},
		{"Schedule a meeting with the client.", task.CategoryMeeting},
		{"Zoom sync with the team.", task.CategoryMeeting},
		{"Gym 6pm.", task.CategoryPersonal},
		{"Buy groceries (milk, eggs, bread).", task.CategoryPersonal},
		{"Water the plants.", task.CategoryPersonal},
		{"Recall the order.", task.CategoryPersonal},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := c.Category(tt.title); got != tt.want {
				t.Errorf("Category(%q) = %s, want %s", tt.title, got, tt.want)
			}
		})
	}
}

func TestAssignee(t *testing.T) {
	c := New(rules.DefaultCompiled())

	tests := []struct {
		title string
		want  string
	}{
		{"Tell Sarah about the offsite.", "Sarah"},
		{"Assign the budget review to Priya.", "Priya"},
		{"Delegate slides to Marco.", "Marco"},
		{"Remind Ben to pay rent.", "Ben"},
		{"Ask John's manager for access.", "John"},
		{"Have Lee draft the memo.", "Lee"},
		{"Ask José about the venue.", "José"},

		{"Tell me a joke.", ""},
		{"Ask her about it.", ""},
		{"Remind Them tomorrow.", ""},
		{"Assign tickets to The team.", ""},
		{"Have A nice day.", ""},
		{"Buy milk.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := c.Assignee(tt.title); got != tt.want {
				t.Errorf("Assignee(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := New(rules.DefaultCompiled())
	titles := []string{"Email boss.", "Tell Sarah asap.", "Maybe gym tonight.", "Call client."}
	for _, title := range titles {
		first := c.Classify(title, due(1), now)
		for i := 0; i < 5; i++ {
			if again := c.Classify(title, due(1), now); again != first {
				t.Fatalf("Classify(%q) run %d = %+v, want %+v", title, i, again, first)
			}
		}
		if !first.Priority.Valid() || !first.Category.Valid() {
			t.Errorf("Classify(%q) produced invalid labels %+v", title, first)
		}
	}
}

func TestDaysUntilUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	local := time.Date(2026, 10, 15, 1, 0, 0, 0, loc) // still the 14th in UTC
	d := task.Date(time.Date(2026, 10, 15, 0, 0, 0, 0, loc))
	if got := daysUntil(d.Time, local); got != 0 {
		t.Errorf("daysUntil = %d, want 0", got)
	}
}
