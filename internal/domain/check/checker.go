// Package check implements the rule evaluators that turn a Solution into
// Issues. Each checker is a predicate-and-extractor over raw text or change
// metadata; none of them parses code.
package check

import (
	"context"
	"log/slog"

	"github.com/openkraft/kraftgate/internal/domain"
	"github.com/openkraft/kraftgate/internal/domain/patterns"
)

// Checker evaluates one concern of a Solution.
type Checker interface {
	Name() string
	Check(ctx context.Context, sol domain.Solution) []domain.Issue
}

// Checker names, in execution order.
const (
	NameCompleteness = "completeness"
	NameStandards    = "standards"
	NameSecurity     = "security"
	NameDependencies = "dependencies"
)

// Default returns the four built-in checkers in execution order:
// completeness, standards, security, dependencies.
func Default(rules domain.Rules, lib *patterns.Library, files domain.FileContentProvider, logger *slog.Logger) []Checker {
	return []Checker{
		NewCompleteness(lib, files, logger),
		NewStandards(rules),
		NewSecurity(lib, files, logger),
		NewDependencies(rules),
	}
}

// readContent fetches the current text of a non-delete change. Any read
// failure means "no additional information" and is only logged.
func readContent(ctx context.Context, files domain.FileContentProvider, change domain.CodeChange, logger *slog.Logger) (string, bool) {
	if change.IsDelete() || files == nil {
		return "", false
	}
	content, err := files.ReadFile(ctx, change.File)
	if err != nil {
		logger.Debug("skipping content scan", "file", change.File, "error", err)
		return "", false
	}
	return content, true
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
