package check

import (
	"context"
	"log/slog"

	"github.com/openkraft/kraftgate/internal/domain"
	"github.com/openkraft/kraftgate/internal/domain/patterns"
)

// SecurityChecker scans the current content of each non-delete target file
// against the security anti-pattern rules. A rule yields at most one issue
// per file.
type SecurityChecker struct {
	rules  []patterns.Rule
	files  domain.FileContentProvider
	logger *slog.Logger
}

func NewSecurity(lib *patterns.Library, files domain.FileContentProvider, logger *slog.Logger) *SecurityChecker {
	return &SecurityChecker{rules: lib.Security, files: files, logger: orDiscard(logger)}
}

func (c *SecurityChecker) Name() string { return NameSecurity }

func (c *SecurityChecker) Check(ctx context.Context, sol domain.Solution) []domain.Issue {
	var issues []domain.Issue

	for _, change := range sol.Changes {
		content, ok := readContent(ctx, c.files, change, c.logger)
		if !ok {
			continue
		}
		for _, r := range c.rules {
			m, ok := r.FindFirst(content)
			if !ok {
				continue
			}
			issues = append(issues, domain.Issue{
				Severity: r.Severity,
				Category: domain.CategorySecurity,
				Message:  r.Message,
				File:     change.File,
				Line:     m.Line,
				Rule:     r.ID,
			})
		}
	}

	return issues
}
