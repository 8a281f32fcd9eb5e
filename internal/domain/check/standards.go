package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/openkraft/kraftgate/internal/domain"
)

// StandardsChecker applies metadata-only heuristics: estimated file size and
// loose typing stated in the change description. It never reads files.
type StandardsChecker struct {
	maxLines        int
	typedExtensions []string
	untypedMarkers  []string
}

func NewStandards(rules domain.Rules) *StandardsChecker {
	return &StandardsChecker{
		maxLines:        rules.MaxEstimatedLines,
		typedExtensions: rules.TypedExtensions,
		untypedMarkers:  rules.UntypedMarkers,
	}
}

func (c *StandardsChecker) Name() string { return NameStandards }

func (c *StandardsChecker) Check(_ context.Context, sol domain.Solution) []domain.Issue {
	var issues []domain.Issue

	for _, change := range sol.Changes {
		if change.EstimatedLines != nil && *change.EstimatedLines > c.maxLines {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityMedium,
				Category: domain.CategoryStandards,
				Message: fmt.Sprintf("File is too large (%d estimated lines, max %d). Consider splitting into smaller modules",
					*change.EstimatedLines, c.maxLines),
				File: change.File,
				Rule: "large-file",
			})
		}

		if !c.isTyped(change.File) {
			continue
		}
		// Plain substring match on the stated intent, so "many" also trips "any".
		for _, marker := range c.untypedMarkers {
			if strings.Contains(change.Description, marker) {
				issues = append(issues, domain.Issue{
					Severity: domain.SeverityLow,
					Category: domain.CategoryStandards,
					Message:  fmt.Sprintf("May use untyped %q escape hatch. Consider using specific types", marker),
					File:     change.File,
					Rule:     "untyped-escape",
				})
				break
			}
		}
	}

	return issues
}

func (c *StandardsChecker) isTyped(file string) bool {
	for _, ext := range c.typedExtensions {
		if strings.HasSuffix(file, ext) {
			return true
		}
	}
	return false
}
