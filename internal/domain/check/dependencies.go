package check

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/openkraft/kraftgate/internal/domain"
)

// DependencyChecker emits one global advisory when a broad Solution leaves
// every dependency manifest untouched.
type DependencyChecker struct {
	limit     int
	manifests []string
}

func NewDependencies(rules domain.Rules) *DependencyChecker {
	return &DependencyChecker{limit: rules.DependencyChangeLimit, manifests: rules.ManifestFiles}
}

func (c *DependencyChecker) Name() string { return NameDependencies }

func (c *DependencyChecker) Check(_ context.Context, sol domain.Solution) []domain.Issue {
	if len(sol.Changes) <= c.limit {
		return nil
	}
	for _, change := range sol.Changes {
		if c.isManifest(change.File) {
			return nil
		}
	}
	return []domain.Issue{{
		Severity: domain.SeverityLow,
		Category: domain.CategoryDependencies,
		Message: fmt.Sprintf("%d files changed without touching a dependency manifest (%s). Review whether dependencies need updating",
			len(sol.Changes), strings.Join(c.manifests, ", ")),
		Rule: "manifest-review",
	}}
}

func (c *DependencyChecker) isManifest(file string) bool {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	for _, m := range c.manifests {
		if base == m {
			return true
		}
	}
	return false
}
