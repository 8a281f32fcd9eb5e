package check_test

import (
	"context"

	"github.com/openkraft/kraftgate/internal/domain"
)

// memFiles is a map-backed FileContentProvider for tests.
type memFiles map[string]string

func (m memFiles) ReadFile(_ context.Context, relPath string) (string, error) {
	content, ok := m[relPath]
	if !ok {
		return "", domain.ErrFileNotFound
	}
	return content, nil
}

func intPtr(v int) *int { return &v }

func change(file string, kind domain.ChangeKind, desc string) domain.CodeChange {
	return domain.CodeChange{File: file, Kind: kind, Description: desc}
}

func solution(changes ...domain.CodeChange) domain.Solution {
	return domain.Solution{ID: "sol", Agent: "tester", Changes: changes}
}

func rules(issues []domain.Issue) []string {
	out := make([]string, len(issues))
	for i, iss := range issues {
		out[i] = iss.Rule
	}
	return out
}
