package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// GitRepo is a throwaway on-disk repository for tests.
type GitRepo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository
	when time.Time
}

// NewGitRepo initializes an empty repository in a temporary directory.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	return &GitRepo{
		t:    t,
		Dir:  dir,
		Repo: repo,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// WriteFile writes content to name inside the worktree without staging it.
func (g *GitRepo) WriteFile(name, content string) {
	g.t.Helper()
	path := filepath.Join(g.Dir, name)
	require.NoError(g.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(g.t, os.WriteFile(path, []byte(content), 0o644))
}

// ReadFile returns the worktree content of name.
func (g *GitRepo) ReadFile(name string) string {
	g.t.Helper()
	data, err := os.ReadFile(filepath.Join(g.Dir, name))
	require.NoError(g.t, err)
	return string(data)
}

// Commit writes files, stages them and commits with message. Each commit is
// one minute after the previous one so committer-time order is stable.
func (g *GitRepo) Commit(message string, files map[string]string, parents ...plumbing.Hash) plumbing.Hash {
	g.t.Helper()

	worktree, err := g.Repo.Worktree()
	require.NoError(g.t, err)

	for name, content := range files {
		g.WriteFile(name, content)
		_, err := worktree.Add(name)
		require.NoError(g.t, err)
	}

	g.when = g.when.Add(time.Minute)
	sig := &object.Signature{Name: "Test", Email: "test@test.com", When: g.when}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: len(files) == 0,
	})
	require.NoError(g.t, err)
	return hash
}

// Tag creates a lightweight tag at hash.
func (g *GitRepo) Tag(name string, hash plumbing.Hash) {
	g.t.Helper()
	_, err := g.Repo.CreateTag(name, hash, nil)
	require.NoError(g.t, err)
}

// AnnotatedTag creates an annotated tag at hash.
func (g *GitRepo) AnnotatedTag(name string, hash plumbing.Hash) {
	g.t.Helper()
	_, err := g.Repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Test", Email: "test@test.com", When: g.when},
		Message: "release " + name,
	})
	require.NoError(g.t, err)
}

// HasTag reports whether the named tag exists.
func (g *GitRepo) HasTag(name string) bool {
	g.t.Helper()
	_, err := g.Repo.Tag(name)
	return err == nil
}

// Head returns the commit hash HEAD points at.
func (g *GitRepo) Head() plumbing.Hash {
	g.t.Helper()
	ref, err := g.Repo.Head()
	require.NoError(g.t, err)
	return ref.Hash()
}
