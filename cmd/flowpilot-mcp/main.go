// flowpilot-mcp exposes task extraction as MCP tools over stdio.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vthunder/flowpilot/internal/audit"
	"github.com/vthunder/flowpilot/internal/config"
	"github.com/vthunder/flowpilot/internal/extract"
	"github.com/vthunder/flowpilot/internal/logging"
	"github.com/vthunder/flowpilot/internal/mcp/tools"
)

const version = "0.1.0"

func main() {
	// Log to stderr so stdout is clean for JSON-RPC
	log.SetOutput(os.Stderr)

	// Load .env file - try executable's parent dir (repo root), then exe dir, then cwd
	envPaths := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		envPaths = append([]string{
			filepath.Join(filepath.Dir(exeDir), ".env"),
			filepath.Join(exeDir, ".env"),
		}, envPaths...)
	}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				logging.Info("main", "Loaded %s", p)
			}
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] Invalid configuration: %v", err)
	}
	if cfg.Debug {
		logging.SetDebug(true)
	}

	selector, err := extract.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("[main] Failed to build extraction pipeline: %v", err)
	}

	deps := &tools.Dependencies{
		Selector: selector,
		Status:   tools.StatusFromConfig(cfg),
	}
	if cfg.AuditPath != "" {
		store, err := audit.Open(cfg.AuditPath)
		if err != nil {
			log.Fatalf("[main] Failed to open audit log: %v", err)
		}
		defer store.Close()
		deps.Audit = store
		logging.Info("main", "Audit log: %s", store.Path())
	}

	logging.Info("main", "Starting flowpilot MCP server %s", version)
	s := tools.NewServer("flowpilot", version, deps)
	if err := server.ServeStdio(s); err != nil {
		logging.Info("main", "Server error: %v", err)
		os.Exit(1)
	}
}
