package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/kraftgate/internal/adapters/outbound/config"
	"github.com/openkraft/kraftgate/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/kraftgate/internal/adapters/outbound/workspace"
	"github.com/openkraft/kraftgate/internal/application"
	"github.com/openkraft/kraftgate/internal/domain/patterns"
)

// gate is the state shared by every tool of one server. The threshold set
// through kraftgate_set_threshold lives in ctrl and applies to later calls.
type gate struct {
	root   string
	ctrl   *application.QualityController
	git    *gitinfo.GitInfoAdapter
	lib    *patterns.Library
	logger *slog.Logger
}

// NewKraftgateMCPServer creates a new MCP server with all kraftgate tools and
// resources registered. workspacePath is the root the validated solutions
// apply to; its .kraftgate.yaml is read once at startup.
func NewKraftgateMCPServer(workspacePath string, logger *slog.Logger) (*server.MCPServer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg, err := config.New().Load(workspacePath)
	if err != nil {
		return nil, err
	}

	lib := patterns.Default()
	git := gitinfo.New()
	g := &gate{
		root: workspacePath,
		ctrl: application.NewQualityController(
			cfg.Resolve(), lib, workspace.New(workspacePath),
			application.WithLogger(logger),
			application.WithSnapshotFunc(headOf(git, workspacePath, logger)),
		),
		git:    git,
		lib:    lib,
		logger: logger,
	}

	s := server.NewMCPServer(
		"kraftgate",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, g)
	registerResources(s, g)

	return s, nil
}

// headOf resolves HEAD at validation time; the server outlives commits.
func headOf(git *gitinfo.GitInfoAdapter, root string, logger *slog.Logger) func() string {
	return func() string {
		if !git.IsGitRepo(root) {
			return ""
		}
		hash, err := git.CommitHash(root)
		if err != nil {
			logger.Debug("no commit hash", "path", root, "error", err)
			return ""
		}
		return hash
	}
}
