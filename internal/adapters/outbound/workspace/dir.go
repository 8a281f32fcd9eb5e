// Package workspace provides file content providers backed by a directory
// on disk or an in-memory map.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/openkraft/kraftgate/internal/domain"
)

// Dir implements domain.FileContentProvider over a workspace root directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at root.
func New(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the workspace root.
func (d *Dir) Root() string { return d.root }

// ReadFile returns the content of relPath. Missing files and directories
// yield domain.ErrFileNotFound; paths leaving the root yield
// domain.ErrPathEscape.
func (d *Dir) ReadFile(ctx context.Context, relPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs, err := d.resolve(relPath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", relPath, domain.ErrFileNotFound)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", relPath, domain.ErrFileNotFound)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", relPath, err)
	}
	return string(data), nil
}

func (d *Dir) resolve(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%s: %w", relPath, domain.ErrPathEscape)
	}
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", relPath, domain.ErrPathEscape)
	}
	return filepath.Join(d.root, cleaned), nil
}
