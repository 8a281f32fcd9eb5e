package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/kraftgate/internal/adapters/outbound/solution"
	"github.com/openkraft/kraftgate/internal/domain"
)

// registerTools registers all kraftgate MCP tools on the given server.
func registerTools(s *server.MCPServer, g *gate) {
	// 1. kraftgate_validate_solution
	s.AddTool(
		mcplib.NewTool("kraftgate_validate_solution",
			mcplib.WithDescription("Validate a proposed solution before applying it. Returns the quality report: score, verdict, issues and recommendations."),
			mcplib.WithString("solution",
				mcplib.Required(),
				mcplib.Description("The solution document: {id, agent, changes: [{file, kind, description, estimated_lines}]}"),
			),
			mcplib.WithString("format", mcplib.Description("Document format: json or yaml (default: json)")),
		),
		handleValidateSolution(g),
	)

	// 2. kraftgate_validate_worktree
	s.AddTool(
		mcplib.NewTool("kraftgate_validate_worktree",
			mcplib.WithDescription("Validate the uncommitted changes in the workspace git working tree as one solution"),
			mcplib.WithString("agent", mcplib.Description("Agent name recorded on the solution (default: mcp)")),
		),
		handleValidateWorktree(g),
	)

	// 3. kraftgate_get_threshold
	s.AddTool(
		mcplib.NewTool("kraftgate_get_threshold",
			mcplib.WithDescription("Returns the minimum score a solution needs to pass"),
		),
		handleGetThreshold(g),
	)

	// 4. kraftgate_set_threshold
	s.AddTool(
		mcplib.NewTool("kraftgate_set_threshold",
			mcplib.WithDescription("Set the minimum passing score. Values are clamped to 0-100; returns the effective threshold."),
			mcplib.WithNumber("score",
				mcplib.Required(),
				mcplib.Description("New minimum acceptable score"),
			),
		),
		handleSetThreshold(g),
	)
}

const noWorktreeChanges = "No uncommitted changes in working tree; nothing to validate."

type thresholdResult struct {
	Threshold int `json:"threshold"`
}

func handleValidateSolution(g *gate) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		doc, err := request.RequireString("solution")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		format := solution.FormatJSON
		switch f := request.GetString("format", "json"); f {
		case "json":
		case "yaml", "yml":
			format = solution.FormatYAML
		default:
			return errorResult(fmt.Sprintf("unknown format %q (valid: json, yaml)", f)), nil
		}

		sol, err := solution.Decode([]byte(doc), format)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return g.validate(ctx, sol)
	}
}

func handleValidateWorktree(g *gate) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		sol, err := g.git.WorktreeSolution(g.root, request.GetString("agent", "mcp"))
		if err != nil {
			return errorResult(fmt.Sprintf("reading working tree: %v", err)), nil
		}
		if len(sol.Changes) == 0 {
			return textResult(noWorktreeChanges), nil
		}
		return g.validate(ctx, sol)
	}
}

func handleGetThreshold(g *gate) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(thresholdResult{Threshold: g.ctrl.MinAcceptableScore()})
	}
}

func handleSetThreshold(g *gate) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		score, err := request.RequireFloat("score")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if math.IsNaN(score) {
			return errorResult("score must be a number"), nil
		}
		// Clamp before converting: out-of-range floats do not convert to int safely.
		g.ctrl.SetMinAcceptableScore(int(math.Round(math.Max(0, math.Min(100, score)))))
		return jsonResult(thresholdResult{Threshold: g.ctrl.MinAcceptableScore()})
	}
}

func (g *gate) validate(ctx context.Context, sol domain.Solution) (*mcplib.CallToolResult, error) {
	report, err := g.ctrl.ValidateSolution(ctx, sol)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(report)
}

// jsonResult marshals v as indented JSON and returns it as text content.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
