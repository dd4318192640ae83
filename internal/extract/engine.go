// Package extract turns free text into an ExtractionResult. Two engines share
// one contract: Local runs the rule pipeline, Remote asks a language model.
// Selector prefers Remote and falls back to Local.
package extract

import (
	"context"
	"time"

	"github.com/vthunder/flowpilot/internal/task"
)

// Engine extracts tasks from text. now anchors relative dates.
type Engine interface {
	Name() string
	Extract(ctx context.Context, text string, now time.Time) (*task.ExtractionResult, error)
}

// Reasons recorded on a result when the remote engine was abandoned
const (
	FallbackTimeout     = "timeout"
	FallbackUnavailable = "unavailable"
	FallbackMalformed   = "malformed"
	FallbackEmpty       = "empty"
)
