// Package temporal finds date and time expressions in a segment and resolves
// them to an absolute due date relative to a caller-supplied "now".
package temporal

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vthunder/flowpilot/internal/rules"
	"github.com/vthunder/flowpilot/internal/task"
)

// span is a matched expression's byte range in the segment
type span struct {
	start, end int
}

// gap is the number of bytes between two spans (0 when they touch or overlap)
func (s span) gap(o span) int {
	switch {
	case s.end <= o.start:
		return o.start - s.end
	case o.end <= s.start:
		return s.start - o.end
	}
	return 0
}

type dateMatch struct {
	span
	date time.Time
}

type clockMatch struct {
	span
	hour, minute int
}

// datePattern resolves one family of date expressions
type datePattern struct {
	re      *regexp.Regexp
	resolve func(m []string, today time.Time) (time.Time, bool)
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

var countWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// datePatterns are scanned in order; all matches are collected and the
// leftmost one in the segment is used.
var datePatterns = []datePattern{
	{
		re: regexp.MustCompile(`(?i)\b(today|tonight)\b`),
		resolve: func(_ []string, today time.Time) (time.Time, bool) {
			return today, true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(tomorrow|tmrw)\b`),
		resolve: func(_ []string, today time.Time) (time.Time, bool) {
			return today.AddDate(0, 0, 1), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(?:(?:next|this|coming|on|by)\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			return nextWeekday(today, weekdays[strings.ToLower(m[1])]), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bthis\s+week\b`),
		resolve: func(_ []string, today time.Time) (time.Time, bool) {
			// Sunday closes a Monday-based week
			return today.AddDate(0, 0, (7-int(today.Weekday()))%7), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bnext\s+week\b`),
		resolve: func(_ []string, today time.Time) (time.Time, bool) {
			return nextWeekday(today, time.Monday), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bin\s+(\d{1,3}|an?|one|two|three|four|five|six|seven|eight|nine|ten)\s+(days?|weeks?)\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			n, ok := countWords[strings.ToLower(m[1])]
			if !ok {
				var err error
				if n, err = strconv.Atoi(m[1]); err != nil {
					return time.Time{}, false
				}
			}
			if strings.HasPrefix(strings.ToLower(m[2]), "week") {
				n *= 7
			}
			return today.AddDate(0, 0, n), true
		},
	},
	{
		re: regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			y, _ := strconv.Atoi(m[1])
			mo, _ := strconv.Atoi(m[2])
			d, _ := strconv.Atoi(m[3])
			return calendarDate(y, mo, d, today.Location())
		},
	},
	{
		re: regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			mo, _ := strconv.Atoi(m[1])
			d, _ := strconv.Atoi(m[2])
			if m[3] != "" {
				y, _ := strconv.Atoi(m[3])
				if y < 100 {
					y += 2000
				}
				return calendarDate(y, mo, d, today.Location())
			}
			date, ok := calendarDate(today.Year(), mo, d, today.Location())
			if ok && date.Before(today) {
				date, ok = calendarDate(today.Year()+1, mo, d, today.Location())
			}
			return date, ok
		},
	},
}

var (
	// 2pm, 2 pm, 3:30pm, 2 p.m.
	clock12Pattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?::([0-5]\d))?\s*([ap])\.?m\b\.?`)
	// 14:00, 9:30
	clock24Pattern = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

// Resolver extracts due dates. It holds only immutable tables and is safe for
// concurrent use.
type Resolver struct {
	rules *rules.Compiled
}

// New creates a resolver using the time-of-day keywords in r
func New(r *rules.Compiled) *Resolver {
	return &Resolver{rules: r}
}

// Resolve returns the due date expressed in text, or nil when there is none.
// A time without a date binds to now's calendar day even if it has passed.
func (r *Resolver) Resolve(text string, now time.Time) *task.DueDate {
	today := midnight(now)

	dates := findDates(text, today)
	clocks := findClocks(text)
	if len(clocks) == 0 {
		clocks = r.findTimeOfDay(text)
	}
	if len(dates) == 0 && len(clocks) == 0 {
		return nil
	}

	if len(dates) == 0 {
		c := clocks[0]
		due := task.DateTime(atClock(today, c))
		return &due
	}

	date := dates[0]
	if len(clocks) == 0 {
		due := task.Date(date.date)
		return &due
	}

	best := clocks[0]
	for _, c := range clocks[1:] {
		if c.gap(date.span) < best.gap(date.span) {
			best = c
		}
	}
	due := task.DateTime(atClock(date.date, best))
	return &due
}

// Contains reports whether text holds a date or an explicit clock time. Bare
// time-of-day words ("morning") are not enough on their own.
func (r *Resolver) Contains(text string) bool {
	for _, p := range datePatterns {
		if p.re.MatchString(text) {
			return true
		}
	}
	return len(findClocks(text)) > 0
}

func findDates(text string, today time.Time) []dateMatch {
	var out []dateMatch
	for _, p := range datePatterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			m := submatches(text, idx)
			date, ok := p.resolve(m, today)
			if !ok {
				continue
			}
			out = append(out, dateMatch{span: span{idx[0], idx[1]}, date: date})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func findClocks(text string) []clockMatch {
	var out []clockMatch
	for _, idx := range clock12Pattern.FindAllStringSubmatchIndex(text, -1) {
		m := submatches(text, idx)
		hour, _ := strconv.Atoi(m[1])
		if hour < 1 || hour > 12 {
			continue
		}
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		hour %= 12
		if strings.EqualFold(m[3], "p") {
			hour += 12
		}
		out = append(out, clockMatch{span: span{idx[0], idx[1]}, hour: hour, minute: minute})
	}

	for _, idx := range clock24Pattern.FindAllStringSubmatchIndex(text, -1) {
		s := span{idx[0], idx[1]}
		if overlapsAny(s, out) {
			continue
		}
		m := submatches(text, idx)
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		out = append(out, clockMatch{span: s, hour: hour, minute: minute})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func (r *Resolver) findTimeOfDay(text string) []clockMatch {
	if r.rules.TimeOfDayPattern == nil {
		return nil
	}
	var out []clockMatch
	for _, loc := range r.rules.TimeOfDayPattern.FindAllIndex(text) {
		kw := strings.ToLower(text[loc[0]:loc[1]])
		tod, ok := r.rules.TimesOfDay[kw]
		if !ok {
			continue
		}
		out = append(out, clockMatch{span: span{loc[0], loc[1]}, hour: tod.Hour, minute: tod.Minute})
	}
	return out
}

func overlapsAny(s span, clocks []clockMatch) bool {
	for _, c := range clocks {
		if s.start < c.end && c.start < s.end {
			return true
		}
	}
	return false
}

func submatches(text string, idx []int) []string {
	m := make([]string, len(idx)/2)
	for i := range m {
		if idx[2*i] >= 0 {
			m[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return m
}

// nextWeekday returns the first day strictly after today that falls on wd
func nextWeekday(today time.Time, wd time.Weekday) time.Time {
	delta := (int(wd) - int(today.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return today.AddDate(0, 0, delta)
}

// calendarDate builds a date, rejecting values that time.Date would normalize
// (e.g. 2/30)
func calendarDate(y, m, d int, loc *time.Location) (time.Time, bool) {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func atClock(day time.Time, c clockMatch) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.hour, c.minute, 0, 0, day.Location())
}
