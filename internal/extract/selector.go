package extract

import (
	"context"
	"errors"
	"time"

	"github.com/vthunder/flowpilot/internal/logging"
	"github.com/vthunder/flowpilot/internal/task"
)

// DefaultRemoteTimeout bounds a remote attempt when no timeout is configured
const DefaultRemoteTimeout = 15 * time.Second

// SelectorConfig is passed explicitly at construction
type SelectorConfig struct {
	RemoteTimeout time.Duration
}

// Selector prefers the remote engine and falls back to the local one. With no
// remote engine it always runs locally.
type Selector struct {
	cfg    SelectorConfig
	local  Engine
	remote Engine
}

// NewSelector creates a selector. remote may be nil.
func NewSelector(cfg SelectorConfig, local, remote Engine) *Selector {
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = DefaultRemoteTimeout
	}
	return &Selector{cfg: cfg, local: local, remote: remote}
}

// RemoteEnabled reports whether a remote engine is configured
func (s *Selector) RemoteEnabled() bool {
	return s.remote != nil
}

// Extract validates input length and runs the preferred engine. Remote
// failures are absorbed; only input errors and caller cancellation surface.
func (s *Selector) Extract(ctx context.Context, text string, now time.Time) (*task.ExtractionResult, error) {
	if err := task.CheckInput(text); err != nil {
		return nil, err
	}
	if s.remote == nil {
		return s.local.Extract(ctx, text, now)
	}

	res, err := s.tryRemote(ctx, text, now)
	if err == nil && len(res.Tasks) > 0 {
		return res, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	reason := fallbackReason(err)
	if err != nil {
		logging.Info("extract", "Remote engine failed (%s), falling back to local: %v", reason, err)
	} else {
		logging.Info("extract", "Remote engine returned no tasks, falling back to local")
	}

	res, err = s.local.Extract(ctx, text, now)
	if err != nil {
		return nil, err
	}
	res.FallbackReason = reason
	return res, nil
}

// ExtractLocal validates input and runs only the local engine
func (s *Selector) ExtractLocal(ctx context.Context, text string, now time.Time) (*task.ExtractionResult, error) {
	if err := task.CheckInput(text); err != nil {
		return nil, err
	}
	return s.local.Extract(ctx, text, now)
}

func (s *Selector) tryRemote(ctx context.Context, text string, now time.Time) (*task.ExtractionResult, error) {
	rctx, cancel := context.WithTimeout(ctx, s.cfg.RemoteTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.remote.Extract(rctx, text, now)
	logging.Debug("extract", "Remote attempt took %v", time.Since(start).Round(time.Millisecond))
	if err == nil && errors.Is(rctx.Err(), context.DeadlineExceeded) {
		// answered after the deadline
		return nil, rctx.Err()
	}
	return res, err
}

func fallbackReason(err error) string {
	switch {
	case err == nil:
		return FallbackEmpty
	case errors.Is(err, context.DeadlineExceeded):
		return FallbackTimeout
	case errors.Is(err, task.ErrMalformedRemoteResponse):
		return FallbackMalformed
	}
	return FallbackUnavailable
}
