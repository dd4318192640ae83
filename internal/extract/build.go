package extract

import (
	"fmt"

	"github.com/vthunder/flowpilot/internal/config"
	"github.com/vthunder/flowpilot/internal/filter"
	"github.com/vthunder/flowpilot/internal/llm"
	"github.com/vthunder/flowpilot/internal/logging"
	"github.com/vthunder/flowpilot/internal/rules"
)

// LoadRules compiles the rule tables at path, or the built-in tables when
// path is empty
func LoadRules(path string) (*rules.Compiled, error) {
	if path == "" {
		return rules.DefaultCompiled(), nil
	}
	tables, err := rules.LoadFile(path)
	if err != nil {
		return nil, err
	}
	compiled, err := tables.Compile()
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return compiled, nil
}

// NewFromConfig wires a Selector: the local pipeline over the configured rule
// tables and, when a remote model is configured, the remote engine.
func NewFromConfig(cfg *config.Config) (*Selector, error) {
	compiled, err := LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	local := NewLocal(compiled, filter.NewProseTagger())

	var remote Engine
	if cfg.RemoteConfigured() {
		client, err := llm.NewClient(llm.Options{
			Provider: cfg.Remote.Provider,
			BaseURL:  cfg.Remote.BaseURL,
			APIKey:   cfg.Remote.APIKey,
			Model:    cfg.Remote.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("remote engine: %w", err)
		}
		logging.Info("extract", "Remote engine enabled (provider=%s model=%s timeout=%v)",
			client.Provider(), client.Model(), cfg.RemoteTimeout())
		remote = NewRemote(client)
	} else {
		logging.Info("extract", "No remote model configured, using local pipeline only")
	}

	return NewSelector(SelectorConfig{RemoteTimeout: cfg.RemoteTimeout()}, local, remote), nil
}
