package scoring

import (
	"fmt"

	"github.com/openkraft/kraftgate/internal/domain"
)

// Fixed advisory strings.
const (
	RecommendSecurity = "Review security issues carefully before applying changes"
	RecommendComplete = "Complete all TODO items and placeholder implementations"
	RecommendMeets    = "Solution meets quality standards"
)

// Recommend maps the final issue list to ordered advice:
//  1. a critical-count summary when any critical issue exists
//  2. a security review advisory when any security issue exists
//  3. a finish-the-implementation advisory when any incomplete issue exists
//  4. the "meets standards" affirmation only when none of the above fired
func Recommend(issues []domain.Issue) []string {
	var recs []string

	if n := domain.CountSeverity(issues, domain.SeverityCritical); n > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d critical issue(s) before accepting this solution", n))
	}
	if domain.CountCategory(issues, domain.CategorySecurity) > 0 {
		recs = append(recs, RecommendSecurity)
	}
	if domain.CountCategory(issues, domain.CategoryIncomplete) > 0 {
		recs = append(recs, RecommendComplete)
	}

	if len(recs) == 0 {
		recs = append(recs, RecommendMeets)
	}
	return recs
}
