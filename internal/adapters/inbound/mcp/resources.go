package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const patternsURI = "kraftgate://patterns"

// registerResources registers all kraftgate MCP resources on the given server.
func registerResources(s *server.MCPServer, g *gate) {
	s.AddResource(
		mcplib.NewResource(
			patternsURI,
			"Pattern Library",
			mcplib.WithResourceDescription("Versioned rule patterns the gate evaluates: completeness markers, complexity heuristics and security anti-patterns"),
			mcplib.WithMIMEType("application/json"),
		),
		handlePatternsResource(g),
	)
}

func handlePatternsResource(g *gate) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(g.lib, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling patterns: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      patternsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
