package cli

import (
	"fmt"
	"log/slog"

	"github.com/openkraft/kraftgate/internal/adapters/outbound/config"
	"github.com/openkraft/kraftgate/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/kraftgate/internal/adapters/outbound/workspace"
	"github.com/openkraft/kraftgate/internal/application"
	"github.com/openkraft/kraftgate/internal/domain"
	"github.com/openkraft/kraftgate/internal/domain/patterns"
)

// newGate builds a controller for the workspace at root. With rev set, file
// contents come from that git revision instead of the working tree.
func newGate(root, rev string, logger *slog.Logger) (*application.QualityController, error) {
	cfg, err := config.New().Load(root)
	if err != nil {
		return nil, err
	}

	var files domain.FileContentProvider = workspace.New(root)
	opts := []application.Option{application.WithLogger(logger)}

	git := gitinfo.New()
	switch {
	case rev != "":
		rf, err := git.Revision(root, rev)
		if err != nil {
			return nil, fmt.Errorf("reading revision %s: %w", rev, err)
		}
		files = rf
		opts = append(opts, application.WithSnapshot(rf.Hash()))
	case git.IsGitRepo(root):
		if hash, err := git.CommitHash(root); err == nil {
			opts = append(opts, application.WithSnapshot(hash))
		} else {
			logger.Debug("no commit hash", "path", root, "error", err)
		}
	}

	return application.NewQualityController(cfg.Resolve(), patterns.Default(), files, opts...), nil
}
