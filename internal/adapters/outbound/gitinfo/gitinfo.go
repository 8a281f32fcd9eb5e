package gitinfo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/openkraft/kraftgate/internal/domain"
)

// GitInfoAdapter implements domain.GitInfo using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

func (g *GitInfoAdapter) IsGitRepo(projectPath string) bool {
	_, err := git.PlainOpen(projectPath)
	return err == nil
}

func (g *GitInfoAdapter) CommitHash(projectPath string) (string, error) {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// Revision returns a file content provider reading blobs from the tree of
// rev (any revision go-git can resolve: HEAD, a branch, a tag, a hash).
func (g *GitInfoAdapter) Revision(projectPath, rev string) (*RevisionFiles, error) {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", rev, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading tree of %s: %w", hash, err)
	}

	return &RevisionFiles{hash: hash.String(), tree: tree}, nil
}

// RevisionFiles implements domain.FileContentProvider over one commit tree.
type RevisionFiles struct {
	hash string
	tree *object.Tree
}

// Hash returns the commit hash the provider reads from.
func (r *RevisionFiles) Hash() string { return r.hash }

func (r *RevisionFiles) ReadFile(ctx context.Context, relPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := r.tree.File(relPath)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", fmt.Errorf("%s at %s: %w", relPath, r.hash, domain.ErrFileNotFound)
		}
		return "", fmt.Errorf("looking up %s: %w", relPath, err)
	}

	content, err := f.Contents()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", relPath, err)
	}
	return content, nil
}
