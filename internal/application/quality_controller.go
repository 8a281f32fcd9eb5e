package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/openkraft/kraftgate/internal/domain"
	"github.com/openkraft/kraftgate/internal/domain/check"
	"github.com/openkraft/kraftgate/internal/domain/patterns"
	"github.com/openkraft/kraftgate/internal/domain/scoring"
)

// QualityController orchestrates the gate pipeline:
// validate input → run checkers in order → score → recommend → report.
//
// The acceptance threshold is the only mutable state. It is read once per
// validation, so concurrent ValidateSolution calls need no locking.
type QualityController struct {
	checkers  []check.Checker
	penalties scoring.PenaltyTable
	snapshot  func() string
	logger    *slog.Logger
	threshold atomic.Int64
}

// Option customizes a QualityController.
type Option func(*QualityController)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *QualityController) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSnapshot records the identifier (usually a commit hash) of the file
// snapshot the provider reads from. It is copied into every Report.
func WithSnapshot(id string) Option {
	return func(c *QualityController) { c.snapshot = func() string { return id } }
}

// WithSnapshotFunc resolves the snapshot identifier once per validation, for
// providers whose snapshot moves between calls (a live working tree).
func WithSnapshotFunc(fn func() string) Option {
	return func(c *QualityController) { c.snapshot = fn }
}

// WithCheckers replaces the default checker chain.
func WithCheckers(checkers ...check.Checker) Option {
	return func(c *QualityController) { c.checkers = checkers }
}

// NewQualityController wires the default checkers against rules, the
// pattern library and the file content provider.
func NewQualityController(
	rules domain.Rules,
	lib *patterns.Library,
	files domain.FileContentProvider,
	opts ...Option,
) *QualityController {
	c := &QualityController{
		penalties: scoring.PenaltyTable(rules.Penalties),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.checkers == nil {
		c.checkers = check.Default(rules, lib, files, c.logger)
	}
	if c.penalties == nil {
		c.penalties = scoring.DefaultPenaltyTable()
	}
	c.SetMinAcceptableScore(rules.MinScore)
	return c
}

// ValidateSolution evaluates sol and returns its Report. The only error is
// a malformed Solution (wrapping domain.ErrInvalidSolution); unreadable
// files never fail a validation.
func (c *QualityController) ValidateSolution(ctx context.Context, sol domain.Solution) (*domain.Report, error) {
	if err := sol.Validate(); err != nil {
		return nil, fmt.Errorf("validating solution: %w", err)
	}

	threshold := c.MinAcceptableScore()
	issues := []domain.Issue{}
	for _, ch := range c.checkers {
		found := ch.Check(ctx, sol)
		c.logger.Debug("checker finished", "solution", sol.ID, "checker", ch.Name(), "issues", len(found))
		issues = append(issues, found...)
	}

	var snapshot string
	if c.snapshot != nil {
		snapshot = c.snapshot()
	}

	score := c.penalties.Score(issues)
	report := &domain.Report{
		SolutionID:      sol.ID,
		Passed:          scoring.Passed(score, threshold),
		Score:           score,
		Threshold:       threshold,
		Issues:          issues,
		Recommendations: scoring.Recommend(issues),
		CommitHash:      snapshot,
	}

	c.logger.Info("solution validated",
		"solution", sol.ID, "agent", sol.Agent,
		"score", report.Score, "threshold", threshold,
		"passed", report.Passed, "issues", len(issues))

	return report, nil
}

// SetMinAcceptableScore sets the acceptance threshold, clamped to [0,100].
func (c *QualityController) SetMinAcceptableScore(score int) {
	c.threshold.Store(int64(scoring.ClampThreshold(score)))
}

// MinAcceptableScore returns the current acceptance threshold.
func (c *QualityController) MinAcceptableScore() int {
	return int(c.threshold.Load())
}
