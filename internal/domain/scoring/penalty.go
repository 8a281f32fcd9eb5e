// Package scoring turns an aggregated issue list into a numeric score,
// a verdict and advisory recommendations.
package scoring

import "github.com/openkraft/kraftgate/internal/domain"

// MaxScore is the score of a Solution with no issues.
const MaxScore = 100

// PenaltyTable maps an issue category to the points each issue in that
// category deducts. Categories absent from the table deduct nothing.
type PenaltyTable map[domain.Category]int

// DefaultPenaltyTable returns a copy of the built-in penalties.
func DefaultPenaltyTable() PenaltyTable {
	t := make(PenaltyTable, len(domain.DefaultPenalties))
	for k, v := range domain.DefaultPenalties {
		t[k] = v
	}
	return t
}

// Penalty returns the total deduction for issues. The sum is linear: every
// issue counts independently, duplicates included.
func (t PenaltyTable) Penalty(issues []domain.Issue) int {
	total := 0
	for _, iss := range issues {
		total += t[iss.Category]
	}
	return total
}

// Score starts from MaxScore, subtracts the penalty of every issue and
// clamps the result at zero.
func (t PenaltyTable) Score(issues []domain.Issue) int {
	return max(0, MaxScore-t.Penalty(issues))
}

// Passed reports whether score meets the acceptance threshold.
func Passed(score, threshold int) bool {
	return score >= threshold
}

// ClampThreshold bounds a threshold to [0, MaxScore].
func ClampThreshold(v int) int {
	return min(max(v, 0), MaxScore)
}
