package git

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/reltag/internal/testutil"
	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T, g *testutil.GitRepo) *Repo {
	t.Helper()
	repo, err := Open(g.Dir)
	require.NoError(t, err)
	return repo
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestOpen_DetectsRootFromSubdirectory(t *testing.T) {
	g := testutil.NewGitRepo(t)
	g.Commit("Initial commit", map[string]string{"pkg/VERSION": "1.0.0\n"})

	repo, err := Open(filepath.Join(g.Dir, "pkg"))
	require.NoError(t, err)

	name, err := repo.repoPath("VERSION")
	require.NoError(t, err)
	assert.Equal(t, "pkg/VERSION", name)

	_, err = repo.repoPath("../../elsewhere")
	assert.Error(t, err)
}

func TestRepo_LastRemovedLine(t *testing.T) {
	ctx := context.Background()

	t.Run("only initial commit", func(t *testing.T) {
		g := testutil.NewGitRepo(t)
		g.Commit("Initial commit", map[string]string{"VERSION": "2.0.0\n"})

		line, found, err := openFixture(t, g).LastRemovedLine(ctx, "VERSION")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, line)
	})

	t.Run("most recent bump wins", func(t *testing.T) {
		g := testutil.NewGitRepo(t)
		g.Commit("Initial commit", map[string]string{"VERSION": "1.0.0\n"})
		g.Commit("Bump to 1.0.1", map[string]string{"VERSION": "1.0.1\n"})
		g.Commit("Unrelated change", map[string]string{"README.md": "# readme\n"})
		g.Commit("Bump to 1.1.0", map[string]string{"VERSION": "1.1.0\n"})

		line, found, err := openFixture(t, g).LastRemovedLine(ctx, "VERSION")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "1.0.1", line)
	})

	t.Run("ignores removals in other files", func(t *testing.T) {
		g := testutil.NewGitRepo(t)
		g.Commit("Initial commit", map[string]string{"VERSION": "1.0.0\n", "NOTES": "old\n"})
		g.Commit("Edit notes", map[string]string{"NOTES": "new\n"})

		_, found, err := openFixture(t, g).LastRemovedLine(ctx, "VERSION")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("cancelled context", func(t *testing.T) {
		g := testutil.NewGitRepo(t)
		g.Commit("Initial commit", map[string]string{"VERSION": "1.0.0\n"})
		g.Commit("Bump", map[string]string{"VERSION": "1.0.1\n"})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := openFixture(t, g).LastRemovedLine(cancelled, "VERSION")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRepo_ResolveTag(t *testing.T) {
	ctx := context.Background()
	g := testutil.NewGitRepo(t)
	first := g.Commit("Initial commit", map[string]string{"VERSION": "1.0.0\n"})
	second := g.Commit("Bump", map[string]string{"VERSION": "1.0.1\n"})
	g.Tag("v1.0.0", first)
	g.AnnotatedTag("v1.0.1", second)

	repo := openFixture(t, g)

	hash, err := repo.ResolveTag(ctx, "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, first.String(), hash)

	hash, err = repo.ResolveTag(ctx, "v1.0.1")
	require.NoError(t, err)
	assert.Equal(t, second.String(), hash, "annotated tags are peeled to their commit")

	_, err = repo.ResolveTag(ctx, "v9.9.9")
	assert.ErrorIs(t, err, gogit.ErrTagNotFound)
}

func TestRepo_CommitsSince(t *testing.T) {
	ctx := context.Background()
	g := testutil.NewGitRepo(t)
	base := g.Commit("Initial commit", map[string]string{"VERSION": "1.0.0\n"})
	g.Commit("Add X", map[string]string{"x.txt": "x\n"})
	g.Commit("Fix Y", map[string]string{"y.txt": "y\n"})
	g.Commit("Add Z", map[string]string{"z.txt": "z\n"})

	commits, err := openFixture(t, g).CommitsSince(ctx, base.String())
	require.NoError(t, err)
	require.Len(t, commits, 3)

	subjects := []string{commits[0].Subject, commits[1].Subject, commits[2].Subject}
	assert.Equal(t, []string{"Add Z", "Fix Y", "Add X"}, subjects)
	for _, c := range commits {
		assert.Len(t, c.ShortHash, 7)
		assert.True(t, len(c.Hash) == 40 && c.Hash[:7] == c.ShortHash)
	}
}

func TestRepo_CommitsSince_SkipsMergesAndTagAncestors(t *testing.T) {
	ctx := context.Background()
	g := testutil.NewGitRepo(t)
	root := g.Commit("Initial commit", map[string]string{"VERSION": "1.0.0\n"})
	tagged := g.Commit("Add tagged work", map[string]string{"a.txt": "a\n"})
	mainline := g.Commit("Add main work", map[string]string{"b.txt": "b\n"})
	side := g.Commit("Add side work", map[string]string{"c.txt": "c\n"}, root)
	g.Commit("Merge side", nil, mainline, side)

	commits, err := openFixture(t, g).CommitsSince(ctx, tagged.String())
	require.NoError(t, err)

	var subjects []string
	for _, c := range commits {
		subjects = append(subjects, c.Subject)
	}
	assert.ElementsMatch(t, []string{"Add main work", "Add side work"}, subjects)
}

func TestRepo_CreateTag(t *testing.T) {
	ctx := context.Background()
	g := testutil.NewGitRepo(t)
	head := g.Commit("Initial commit", map[string]string{"VERSION": "1.0.0\n"})

	repo := openFixture(t, g)
	require.NoError(t, repo.CreateTag(ctx, "v1.0.0"))
	assert.True(t, g.HasTag("v1.0.0"))

	hash, err := repo.ResolveTag(ctx, "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, head.String(), hash)

	err = repo.CreateTag(ctx, "v1.0.0")
	assert.ErrorIs(t, err, gogit.ErrTagExists)
}

func TestRepo_Head(t *testing.T) {
	g := testutil.NewGitRepo(t)
	repo := openFixture(t, g)

	_, err := repo.Head()
	assert.Error(t, err, "empty repository has no HEAD commit")

	hash := g.Commit("Add VERSION\n\nwith a body", map[string]string{"VERSION": "1.0.0\n"})
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, hash.String(), head.Hash)
	assert.Equal(t, hash.String()[:7], head.ShortHash)
	assert.Equal(t, "Add VERSION", head.Subject)
}
