package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/vthunder/flowpilot/internal/audit"
	"github.com/vthunder/flowpilot/internal/clarify"
	"github.com/vthunder/flowpilot/internal/logging"
	"github.com/vthunder/flowpilot/internal/task"
)

// NewServer creates an MCP server with every tool registered
func NewServer(name, version string, deps *Dependencies) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(true))
	RegisterAll(s, deps)
	return s
}

// RegisterAll registers all MCP tools with the given server and dependencies.
func RegisterAll(s *server.MCPServer, deps *Dependencies) {
	h := &handlers{deps: deps}
	s.AddTool(extractTasksTool(), h.extractTasks)
	s.AddTool(clarifyTaskTool(), h.clarifyTask)
	s.AddTool(engineStatusTool(), h.engineStatus)
}

type handlers struct {
	deps *Dependencies
}

func extractTasksTool() mcp.Tool {
	return mcp.NewTool("extract_tasks",
		mcp.WithDescription("Extract actionable tasks from free text. Returns tasks with normalized titles, due dates, priority, category and assignee, plus a clarification request for every task without a due date."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw text, 3 to 10000 characters (e.g. \"Email boss tomorrow at 2pm, gym 6pm\")"),
		),
		mcp.WithString("now",
			mcp.Description("RFC 3339 timestamp that relative dates resolve against. Default: server clock"),
		),
		mcp.WithBoolean("local",
			mcp.Description("Skip the remote model and run only the local rule pipeline. Default: false"),
		),
	)
}

func clarifyTaskTool() mcp.Tool {
	return mcp.NewTool("clarify_task",
		mcp.WithDescription("Answer a clarification (\"When is this due?\") by re-submitting the task's original text with the answer appended."),
		mcp.WithString("original_text",
			mcp.Required(),
			mcp.Description("The original_text of the unclarified task"),
		),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("When the task is due, in natural language (e.g. \"friday at 3pm\")"),
		),
		mcp.WithString("now",
			mcp.Description("RFC 3339 timestamp that relative dates resolve against. Default: server clock"),
		),
	)
}

func engineStatusTool() mcp.Tool {
	return mcp.NewTool("engine_status",
		mcp.WithDescription("Report whether the remote model is configured and, when an audit log is open, how many extractions each engine produced."),
	)
}

func (h *handlers) extractTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	text := cast.ToString(args["text"])
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	now, err := h.parseNow(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.run(ctx, "extract_tasks", text, now, cast.ToBool(args["local"]))
}

func (h *handlers) clarifyTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	original := cast.ToString(args["original_text"])
	answer := cast.ToString(args["answer"])
	if original == "" || answer == "" {
		return mcp.NewToolResultError("original_text and answer are required"), nil
	}
	now, err := h.parseNow(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.run(ctx, "clarify_task", clarify.ResubmissionText(original, answer), now, false)
}

func (h *handlers) engineStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.notify("engine_status")

	out := struct {
		EngineStatus
		Audit *audit.Stats `json:"audit,omitempty"`
	}{EngineStatus: h.deps.Status}

	if h.deps.Audit != nil {
		st, err := h.deps.Audit.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read audit log: %v", err)), nil
		}
		out.Audit = &st
	}
	return jsonResult(out)
}

func (h *handlers) run(ctx context.Context, tool, text string, now time.Time, local bool) (*mcp.CallToolResult, error) {
	h.notify(tool)

	start := time.Now()
	var res *task.ExtractionResult
	var err error
	if local {
		res, err = h.deps.Selector.ExtractLocal(ctx, text, now)
	} else {
		res, err = h.deps.Selector.Extract(ctx, text, now)
	}
	if err != nil {
		if task.IsInputError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	elapsed := time.Since(start)

	logging.Info("mcp", "%s: %d tasks, %d clarifications via %s (%v)",
		tool, len(res.Tasks), len(res.Clarifications), res.Engine, elapsed.Round(time.Millisecond))

	if h.deps.Audit != nil {
		entry := audit.NewEntry(res, utf8.RuneCountInString(text), elapsed)
		if _, err := h.deps.Audit.Record(ctx, entry); err != nil {
			logging.Info("mcp", "Failed to record audit entry: %v", err)
		}
	}
	return jsonResult(res)
}

func (h *handlers) parseNow(args map[string]any) (time.Time, error) {
	s := cast.ToString(args["now"])
	if s == "" {
		return h.deps.now(), nil
	}
	now, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("now must be an RFC 3339 timestamp: %v", err)
	}
	return now, nil
}

func (h *handlers) notify(tool string) {
	if h.deps.OnToolCall != nil {
		h.deps.OnToolCall(tool)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
