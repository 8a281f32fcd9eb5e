package domain

import "context"

// FileContentProvider resolves a project-relative path to its current text.
// Absence is reported as an error (usually ErrFileNotFound) and is a normal
// outcome, never a panic.
type FileContentProvider interface {
	ReadFile(ctx context.Context, relPath string) (string, error)
}

// FileContentProviderFunc adapts a plain function to FileContentProvider.
type FileContentProviderFunc func(ctx context.Context, relPath string) (string, error)

func (f FileContentProviderFunc) ReadFile(ctx context.Context, relPath string) (string, error) {
	return f(ctx, relPath)
}

// ConfigLoader loads gate configuration for a workspace.
type ConfigLoader interface {
	Load(workspacePath string) (GateConfig, error)
}

// GitInfo exposes read-only repository metadata.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}
