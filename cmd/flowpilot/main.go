// flowpilot extracts tasks from text given as arguments or on stdin and
// prints the result as JSON.
//
// Usage:
//
//	flowpilot [-now RFC3339] [-local] [-rules file] [-clarify answer] [text...]
//	flowpilot -health
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"github.com/vthunder/flowpilot/internal/audit"
	"github.com/vthunder/flowpilot/internal/clarify"
	"github.com/vthunder/flowpilot/internal/config"
	"github.com/vthunder/flowpilot/internal/extract"
	"github.com/vthunder/flowpilot/internal/logging"
	"github.com/vthunder/flowpilot/internal/mcp/tools"
	"github.com/vthunder/flowpilot/internal/task"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// Load .env file if present (don't error if missing)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("flowpilot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	nowFlag := fs.String("now", "", "RFC 3339 timestamp relative dates resolve against (default: current time)")
	localOnly := fs.Bool("local", false, "skip the remote model and run the local pipeline only")
	rulesPath := fs.String("rules", "", "YAML rule table overlay (overrides FLOWPILOT_RULES)")
	answer := fs.String("clarify", "", "answer to \"When is this due?\"; the text is the task's original text")
	health := fs.Bool("health", false, "print engine status and exit")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.FromEnv(getenv)
	if err != nil {
		fmt.Fprintf(stderr, "flowpilot: %v\n", err)
		return exitUsage
	}
	if *rulesPath != "" {
		cfg.RulesPath = *rulesPath
	}
	if *debug || cfg.Debug {
		logging.SetDebug(true)
	}

	var store *audit.Store
	if cfg.AuditPath != "" {
		if store, err = audit.Open(cfg.AuditPath); err != nil {
			fmt.Fprintf(stderr, "flowpilot: %v\n", err)
			return exitError
		}
		defer store.Close()
	}

	if *health {
		return printHealth(ctx, cfg, store, stdout, stderr)
	}

	now := time.Now()
	if *nowFlag != "" {
		if now, err = time.Parse(time.RFC3339, *nowFlag); err != nil {
			fmt.Fprintf(stderr, "flowpilot: -now: %v\n", err)
			return exitUsage
		}
	}

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "flowpilot: reading stdin: %v\n", err)
			return exitError
		}
		text = strings.TrimRight(string(data), "\n")
	}
	if *answer != "" {
		text = clarify.ResubmissionText(text, *answer)
	}

	selector, err := extract.NewFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "flowpilot: %v\n", err)
		return exitError
	}

	start := time.Now()
	var res *task.ExtractionResult
	if *localOnly {
		res, err = selector.ExtractLocal(ctx, text, now)
	} else {
		res, err = selector.Extract(ctx, text, now)
	}
	if err != nil {
		fmt.Fprintf(stderr, "flowpilot: %v\n", err)
		if task.IsInputError(err) {
			return exitUsage
		}
		return exitError
	}

	if store != nil {
		entry := audit.NewEntry(res, utf8.RuneCountInString(text), time.Since(start))
		if _, err := store.Record(ctx, entry); err != nil {
			logging.Info("main", "Failed to record audit entry: %v", err)
		}
	}

	return writeJSON(stdout, stderr, res)
}

func printHealth(ctx context.Context, cfg *config.Config, store *audit.Store, stdout, stderr io.Writer) int {
	out := struct {
		Status string `json:"status"`
		tools.EngineStatus
		Audit *audit.Stats `json:"audit,omitempty"`
	}{Status: "ok", EngineStatus: tools.StatusFromConfig(cfg)}

	if store != nil {
		st, err := store.Stats(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "flowpilot: %v\n", err)
			return exitError
		}
		out.Audit = &st
	}
	return writeJSON(stdout, stderr, out)
}

func writeJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "flowpilot: %v\n", err)
		return exitError
	}
	return exitOK
}
