package gitinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/google/uuid"

	"github.com/openkraft/kraftgate/internal/domain"
)

// WorktreeSolution builds a Solution from the uncommitted changes of the
// repository at projectPath. Untracked and newly staged files become
// creates, removed files deletes, everything else modifies. Estimated line
// counts come from the files on disk.
func (g *GitInfoAdapter) WorktreeSolution(projectPath, agent string) (domain.Solution, error) {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return domain.Solution{}, fmt.Errorf("opening git repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return domain.Solution{}, fmt.Errorf("opening worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return domain.Solution{}, fmt.Errorf("reading status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for p := range status {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	sol := domain.Solution{ID: uuid.NewString(), Agent: agent}
	for _, p := range paths {
		kind, ok := changeKind(status[p])
		if !ok {
			continue
		}
		ch := domain.CodeChange{
			File:        p,
			Kind:        kind,
			Description: fmt.Sprintf("%s in working tree", kind),
		}
		if kind != domain.ChangeDelete {
			if n, err := countLines(filepath.Join(projectPath, filepath.FromSlash(p))); err == nil {
				ch.EstimatedLines = &n
			}
		}
		sol.Changes = append(sol.Changes, ch)
	}

	return sol, nil
}

func changeKind(fs *git.FileStatus) (domain.ChangeKind, bool) {
	switch {
	case fs.Worktree == git.Deleted || fs.Staging == git.Deleted:
		return domain.ChangeDelete, true
	case fs.Worktree == git.Untracked || fs.Staging == git.Added:
		return domain.ChangeCreate, true
	case fs.Worktree == git.Unmodified && fs.Staging == git.Unmodified:
		return "", false
	default:
		return domain.ChangeModify, true
	}
}

func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	n := strings.Count(string(data), "\n")
	if data[len(data)-1] != '\n' {
		n++
	}
	return n, nil
}
