package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/openkraft/kraftgate/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the kraftgate MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start kraftgate MCP server (stdio)",
		Long:  "Start the kraftgate MCP server using stdio transport. Coding agents can submit solutions for validation and read or adjust the acceptance threshold.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			s, err := mcpadapter.NewKraftgateMCPServer(projectPath, loggerFor(cmd))
			if err != nil {
				return err
			}
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Workspace path (defaults to current working directory)")

	return cmd
}
