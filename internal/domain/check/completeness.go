package check

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openkraft/kraftgate/internal/domain"
	"github.com/openkraft/kraftgate/internal/domain/patterns"
)

// CompletenessChecker flags stub and placeholder markers in change
// descriptions (critical) and in the current content of target files (high).
type CompletenessChecker struct {
	rules  []patterns.Rule
	files  domain.FileContentProvider
	logger *slog.Logger
}

func NewCompleteness(lib *patterns.Library, files domain.FileContentProvider, logger *slog.Logger) *CompletenessChecker {
	return &CompletenessChecker{rules: lib.Completeness, files: files, logger: orDiscard(logger)}
}

func (c *CompletenessChecker) Name() string { return NameCompleteness }

func (c *CompletenessChecker) Check(ctx context.Context, sol domain.Solution) []domain.Issue {
	var issues []domain.Issue

	for _, change := range sol.Changes {
		for _, r := range c.rules {
			m, ok := r.FindFirst(change.Description)
			if !ok {
				continue
			}
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityCritical,
				Category: domain.CategoryIncomplete,
				Message:  fmt.Sprintf("Change description contains incomplete marker %q (%s)", m.Text, r.Description),
				File:     change.File,
				Rule:     r.ID,
			})
		}

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
				Severity: domain.SeverityHigh,
				Category: domain.CategoryIncomplete,
				Message:  fmt.Sprintf("Found incomplete code marker %q (%s)", m.Text, r.Description),
				File:     change.File,
				Line:     m.Line,
				Rule:     r.ID,
			})
		}
	}

	return issues
}
