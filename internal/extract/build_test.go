package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vthunder/flowpilot/internal/config"
	"github.com/vthunder/flowpilot/internal/task"
)

func TestNewFromConfigLocalOnly(t *testing.T) {
	cfg := config.Default()
	s, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.RemoteEnabled() {
		t.Error("no key configured, remote should be disabled")
	}
	res, err := s.Extract(context.Background(), "call mom tomorrow", now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Engine != task.EngineLocal || len(res.Tasks) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestNewFromConfigRemote(t *testing.T) {
	cfg, err := config.FromEnv(func(k string) string {
		if k == "OPENAI_API_KEY" {
			return "sk-test"
		}
		return ""
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !s.RemoteEnabled() {
		t.Error("remote should be enabled with a key")
	}
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("split_words: [and]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	compiled, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if compiled.IsSplitWord("then") {
		t.Error("overlay should replace split words")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("default_priority: p0\n"), 0644)
	if _, err := LoadRules(bad); err == nil {
		t.Error("expected compile error")
	}
}
