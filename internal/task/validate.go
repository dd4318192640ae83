package task

import (
	"errors"
	"fmt"
)

// Validate checks the result contract: every task is well formed and every
// unclarified task has exactly one clarification referencing it.
func (r *ExtractionResult) Validate() error {
	if r == nil {
		return errors.New("nil result")
	}

	byID := make(map[string]*Task, len(r.Tasks))
	for i := range r.Tasks {
		t := &r.Tasks[i]
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		if _, dup := byID[t.ID]; dup {
			return fmt.Errorf("task %d: duplicate id %s", i+1, t.ID)
		}
		byID[t.ID] = t
	}

	asked := make(map[string]bool, len(r.Clarifications))
	for i, c := range r.Clarifications {
		t, ok := byID[c.ID]
		if !ok {
			return fmt.Errorf("clarification %d: no task with id %s", i+1, c.ID)
		}
		if t.IsClarified {
			return fmt.Errorf("clarification %d: task %s already has a due date", i+1, c.ID)
		}
		if asked[c.ID] {
			return fmt.Errorf("clarification %d: duplicate for task %s", i+1, c.ID)
		}
		if c.Question == "" {
			return fmt.Errorf("clarification %d: empty question", i+1)
		}
		asked[c.ID] = true
	}

	for _, t := range r.Tasks {
		if !t.IsClarified && !asked[t.ID] {
			return fmt.Errorf("task %s has no due date and no clarification", t.ID)
		}
	}
	return nil
}

// Validate checks a single task's fields
func (t *Task) Validate() error {
	if t.ID == "" {
		return errors.New("missing id")
	}
	if t.Title == "" {
		return errors.New("missing title")
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", t.Priority)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("invalid category %q", t.Category)
	}
	if t.IsClarified != (t.DueDate != nil) {
		return fmt.Errorf("is_clarified=%v does not match due date presence", t.IsClarified)
	}
	if t.IsSarcastic {
		return errors.New("sarcastic segments must not produce tasks")
	}
	return nil
}
