package workspace

import (
	"context"
	"fmt"
	"path"

	"github.com/openkraft/kraftgate/internal/domain"
)

// Memory is a map-backed domain.FileContentProvider keyed by slash paths.
type Memory map[string]string

func (m Memory) ReadFile(_ context.Context, relPath string) (string, error) {
	content, ok := m[path.Clean(relPath)]
	if !ok {
		return "", fmt.Errorf("%s: %w", relPath, domain.ErrFileNotFound)
	}
	return content, nil
}
