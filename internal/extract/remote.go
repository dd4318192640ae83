package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vthunder/flowpilot/internal/clarify"
	"github.com/vthunder/flowpilot/internal/llm"
	"github.com/vthunder/flowpilot/internal/task"
)

const taskExtractionPrompt = `Extract actionable tasks from the user's text.

CURRENT TIME: %s (%s)

RULES:
- One task per distinct action. Ignore greetings, small talk and sarcasm
  ("yeah right", "when pigs fly", "I'll do it in 5 seconds").
- title: short imperative phrase, first letter capitalized, ending with a period.
  Drop first-person framing ("I want to", "I need to").
- original_text: the fragment of the input the task came from.
- due_date: resolve relative dates against CURRENT TIME. Use "YYYY-MM-DD" for a
  date, "YYYY-MM-DDTHH:MM:SS" with the same UTC offset as CURRENT TIME for a date
  and time, or null when no date or time is stated.
- priority: one of "high", "medium", "low".
- category: one of "Work", "Personal", "Meeting".
- assignee: the person the task is delegated to, or null.

TEXT: %q

Return ONLY a JSON object:
{"tasks":[{"title":"...","original_text":"...","due_date":null,"priority":"medium","category":"Personal","assignee":null}]}

EXAMPLE for "Email boss tomorrow at 2pm, gym":
{"tasks":[{"title":"Email boss.","original_text":"Email boss tomorrow at 2pm","due_date":"2026-10-15T14:00:00-07:00","priority":"medium","category":"Work","assignee":null},{"title":"Gym.","original_text":"gym","due_date":null,"priority":"medium","category":"Personal","assignee":null}]}

JSON:`

// remoteTask is one task as the model returns it
type remoteTask struct {
	Title        string  `json:"title"`
	OriginalText string  `json:"original_text"`
	DueDate      *string `json:"due_date"`
	Priority     string  `json:"priority"`
	Category     string  `json:"category"`
	Assignee     *string `json:"assignee"`
}

// Remote extracts tasks with a language model. Every deviation from the
// expected shape is an ErrMalformedRemoteResponse.
type Remote struct {
	generator llm.Generator
}

// NewRemote creates a remote engine over generator
func NewRemote(generator llm.Generator) *Remote {
	return &Remote{generator: generator}
}

func (r *Remote) Name() string { return task.EngineRemote }

// Extract asks the model for tasks and validates the answer
func (r *Remote) Extract(ctx context.Context, text string, now time.Time) (*task.ExtractionResult, error) {
	if r.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", task.ErrRemoteUnavailable)
	}

	prompt := fmt.Sprintf(taskExtractionPrompt, now.Format(time.RFC3339), now.Weekday(), text)
	response, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", task.ErrRemoteUnavailable, err)
	}

	raw, err := parseTaskJSON(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrMalformedRemoteResponse, err)
	}

	res := task.NewResult(task.EngineRemote)
	for i, rt := range raw {
		t, err := rt.toTask(now.Location())
		if err != nil {
			return nil, fmt.Errorf("%w: tasks[%d]: %v", task.ErrMalformedRemoteResponse, i, err)
		}
		res.Tasks = append(res.Tasks, t)
	}
	res.Clarifications = clarify.Generate(res.Tasks)

	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrMalformedRemoteResponse, err)
	}
	return res, nil
}

// parseTaskJSON accepts a bare array of tasks or an object {"tasks": [...]}
func parseTaskJSON(response string) ([]remoteTask, error) {
	response = cleanJSONResponse(response)

	arrayStart := strings.Index(response, "[")
	objectStart := strings.Index(response, "{")

	switch {
	case arrayStart >= 0 && (objectStart < 0 || arrayStart < objectStart):
		arrayEnd := strings.LastIndex(response, "]")
		if arrayEnd < arrayStart {
			return nil, errors.New("unterminated JSON array")
		}
		var tasks []remoteTask
		if err := json.Unmarshal([]byte(response[arrayStart:arrayEnd+1]), &tasks); err != nil {
			return nil, fmt.Errorf("decode task array: %w", err)
		}
		return tasks, nil

	case objectStart >= 0:
		objectEnd := strings.LastIndex(response, "}")
		if objectEnd < objectStart {
			return nil, errors.New("unterminated JSON object")
		}
		var obj struct {
			Tasks *[]remoteTask `json:"tasks"`
		}
		if err := json.Unmarshal([]byte(response[objectStart:objectEnd+1]), &obj); err != nil {
			return nil, fmt.Errorf("decode task object: %w", err)
		}
		if obj.Tasks == nil {
			return nil, errors.New(`object has no "tasks" array`)
		}
		return *obj.Tasks, nil
	}
	return nil, errors.New("no JSON in response")
}

func (rt remoteTask) toTask(loc *time.Location) (task.Task, error) {
	title := strings.TrimSpace(rt.Title)
	if title == "" {
		return task.Task{}, errors.New("empty title")
	}
	priority, err := task.ParsePriority(rt.Priority)
	if err != nil {
		return task.Task{}, err
	}
	category, err := task.ParseCategory(rt.Category)
	if err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		ID:           task.NewID(),
		Title:        title,
		OriginalText: strings.TrimSpace(rt.OriginalText),
		Priority:     priority,
		Category:     category,
	}
	if t.OriginalText == "" {
		t.OriginalText = title
	}
	if rt.Assignee != nil {
		t.Assignee = strings.TrimSpace(*rt.Assignee)
	}
	if rt.DueDate != nil && strings.TrimSpace(*rt.DueDate) != "" {
		due, err := task.ParseDueDate(*rt.DueDate, loc)
		if err != nil {
			return task.Task{}, fmt.Errorf("due_date: %w", err)
		}
		t.DueDate = &due
	}
	t.IsClarified = t.DueDate != nil
	return t, nil
}

// cleanJSONResponse strips markdown code fences around a JSON payload
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```json")
		response = strings.TrimPrefix(response, "```")
		response = strings.TrimSuffix(response, "```")
		response = strings.TrimSpace(response)
	}
	return response
}
