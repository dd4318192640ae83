// Package tools registers the FlowPilot MCP tools with dependency injection.
package tools

import (
	"time"

	"github.com/vthunder/flowpilot/internal/audit"
	"github.com/vthunder/flowpilot/internal/config"
	"github.com/vthunder/flowpilot/internal/extract"
)

// EngineStatus describes the remote engine configuration reported by
// engine_status
type EngineStatus struct {
	RemoteConfigured bool   `json:"remote_configured"`
	Provider         string `json:"provider,omitempty"`
	Model            string `json:"model,omitempty"`
	RemoteTimeout    string `json:"remote_timeout,omitempty"`
}

// Dependencies holds all services that MCP tools may need.
// Optional fields may be nil.
type Dependencies struct {
	// Required
	Selector *extract.Selector
	Status   EngineStatus

	// Optional
	Audit *audit.Store
	// Now overrides the clock used when a call does not pass "now"
	Now func() time.Time
	// If set, called with the tool name after every tool call
	OnToolCall func(toolName string)
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// StatusFromConfig reports the remote engine settings without the API key
func StatusFromConfig(cfg *config.Config) EngineStatus {
	st := EngineStatus{RemoteConfigured: cfg.RemoteConfigured()}
	if st.RemoteConfigured {
		st.Provider = cfg.Remote.Provider
		st.Model = cfg.Remote.Model
		st.RemoteTimeout = cfg.RemoteTimeout().String()
	}
	return st
}
