// Package classify assigns priority, category and assignee to a task title.
package classify

import (
	"strings"
	"time"

	"github.com/vthunder/flowpilot/internal/rules"
	"github.com/vthunder/flowpilot/internal/task"
)

// Classification is the classifier's output for one title
type Classification struct {
	Priority task.Priority
	Category task.Category
	Assignee string
}

// Classifier is a pure function of its inputs plus the compiled tables
type Classifier struct {
	rules *rules.Compiled
}

// New creates a classifier over compiled rule tables
func New(r *rules.Compiled) *Classifier {
	return &Classifier{rules: r}
}

// Classify labels a title. due may be nil. now only matters for near-term
// priority rules.
func (c *Classifier) Classify(title string, due *task.DueDate, now time.Time) Classification {
	return Classification{
		Priority: c.Priority(title, due, now),
		Category: c.Category(title),
		Assignee: c.Assignee(title),
	}
}

// Priority returns the priority of the first matching rule in table order
func (c *Classifier) Priority(title string, due *task.DueDate, now time.Time) task.Priority {
	for _, rule := range c.rules.Priorities {
		if rule.Keywords != nil && rule.Keywords.MatchString(title) {
			return rule.Priority
		}
		if rule.NearTerm && due != nil {
			if d := daysUntil(due.Time, now); d >= 0 && d <= rule.WithinDays {
				return rule.Priority
			}
		}
	}
	return c.rules.DefaultPriority
}

// Category returns the category of the first rule with a keyword in title
func (c *Classifier) Category(title string) task.Category {
	for _, rule := range c.rules.Categories {
		if rule.Keywords.MatchString(title) {
			return rule.Category
		}
	}
	return c.rules.DefaultCategory
}

// Assignee returns the delegated person's name, or "" when the task is the
// user's own
func (c *Classifier) Assignee(title string) string {
	for _, re := range c.rules.Delegation {
		m := re.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		name := trimPossessive(m[1])
		if name == "" || c.rules.IsNonName(name) {
			continue
		}
		return name
	}
	return ""
}

func trimPossessive(name string) string {
	for _, suffix := range []string{"'s", "’s", "'", "’"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// daysUntil counts calendar days from now's date to due's date, in now's location
func daysUntil(due, now time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = due.In(now.Location()).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(day.Sub(today).Hours() / 24)
}
