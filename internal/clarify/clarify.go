// Package clarify asks for missing due dates and rebuilds the input once the
// user answers.
package clarify

import (
	"strings"

	"github.com/vthunder/flowpilot/internal/task"
)

// Generate returns one clarification per task without a due date, in task order
func Generate(tasks []task.Task) []task.Clarification {
	out := make([]task.Clarification, 0)
	for _, t := range tasks {
		if t.IsClarified {
			continue
		}
		out = append(out, task.Clarification{
			ID:        t.ID,
			TaskTitle: t.Title,
			Question:  task.ClarificationQuestion,
		})
	}
	return out
}

// ResubmissionText builds the text sent back through extraction after the user
// answers a clarification: "<original> due <answer>."
func ResubmissionText(original, answer string) string {
	original = strings.TrimRight(strings.TrimSpace(original), ".!?")
	answer = strings.TrimRight(strings.TrimSpace(answer), ".!?")
	return original + " due " + answer + "."
}
