// Package git provides the version-control queries reltag needs: recovering
// the previous content of the version file from history, resolving tags,
// listing commits since a tag, and creating the release tag. It uses the
// go-git library by default (Repo) and can fall back to the git CLI (CLI)
// for repositories or environments go-git does not handle.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// shortHashLen matches git's default abbreviation length.
const shortHashLen = 7

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Commit is a single entry of a commit range.
type Commit struct {
	Hash      string
	ShortHash string
	Subject   string
}

// Repo is a go-git backed repository handle.
// Paths passed to its methods are relative to the directory given to Open.
type Repo struct {
	repo *git.Repository
	dir  string
	root string
}

// Open opens the git repository containing path. It uses go-git's
// PlainOpenWithOptions with DetectDotGit enabled so that path may be any
// directory inside the worktree.
func Open(path string) (*Repo, error) {
	if path == "" {
		path = "."
	}
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	logDebug("[git] opening repository at %s", dir)

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] repository root %s", root)
	return &Repo{repo: repo, dir: dir, root: root}, nil
}

// Root returns the absolute path of the worktree root.
func (r *Repo) Root() string {
	return r.root
}

// repoPath converts a path relative to the opened directory into the
// slash-separated, root-relative form go-git uses in trees.
func (r *Repo) repoPath(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.dir, path)
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", path, r.root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// LastRemovedLine returns the last non-blank removed line of the most
// recent commit touching path that removed at least one line. It returns
// ("", false, nil) when no commit in the history of HEAD qualifies.
//
// Root commits only add lines and merge commits are skipped, matching what
// `git log -p` shows for the file.
func (r *Repo) LastRemovedLine(ctx context.Context, path string) (string, bool, error) {
	name, err := r.repoPath(path)
	if err != nil {
		return "", false, err
	}

	head, err := r.repo.Head()
	if err != nil {
		return "", false, fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:     head.Hash(),
		FileName: &name,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return "", false, fmt.Errorf("reading history of %s: %w", name, err)
	}
	defer iter.Close()

	var line string
	var found bool
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.NumParents() != 1 {
			return nil
		}
		l, ok, err := removedLineInCommit(ctx, c, name)
		if err != nil {
			return err
		}
		if ok {
			logDebug("[git] LastRemovedLine: %s removed %q from %s", c.Hash, l, name)
			line, found = l, true
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("walking history of %s: %w", name, err)
	}

	return line, found, nil
}

// removedLineInCommit diffs c against its first parent and returns the last
// non-blank line deleted from name.
func removedLineInCommit(ctx context.Context, c *object.Commit, name string) (string, bool, error) {
	parent, err := c.Parent(0)
	if err != nil {
		return "", false, fmt.Errorf("getting parent of %s: %w", c.Hash, err)
	}

	patch, err := parent.PatchContext(ctx, c)
	if err != nil {
		return "", false, fmt.Errorf("diffing %s: %w", c.Hash, err)
	}

	var last string
	var found bool
	for _, fp := range patch.FilePatches() {
		if !touches(fp, name) {
			continue
		}
		for _, chunk := range fp.Chunks() {
			if chunk.Type() != fdiff.Delete {
				continue
			}
			for _, l := range strings.Split(chunk.Content(), "\n") {
				if strings.TrimSpace(l) == "" {
					continue
				}
				last, found = l, true
			}
		}
	}

	return last, found, nil
}

// touches reports whether a file patch is for name on either side.
func touches(fp fdiff.FilePatch, name string) bool {
	from, to := fp.Files()
	return (from != nil && from.Path() == name) || (to != nil && to.Path() == name)
}

// ResolveTag returns the commit hash the named tag points at.
// Annotated tags are peeled to their target commit.
func (r *Repo) ResolveTag(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref, err := r.repo.Tag(name)
	if err != nil {
		return "", fmt.Errorf("resolving tag %s: %w", name, err)
	}

	tag, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tag.Commit()
		if err != nil {
			return "", fmt.Errorf("peeling tag %s: %w", name, err)
		}
		logDebug("[git] ResolveTag: %s (annotated) -> %s", name, commit.Hash)
		return commit.Hash.String(), nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		logDebug("[git] ResolveTag: %s -> %s", name, ref.Hash())
		return ref.Hash().String(), nil
	default:
		return "", fmt.Errorf("reading tag object %s: %w", name, err)
	}
}

// CommitsSince returns the non-merge commits reachable from HEAD but not
// from hash (git's hash..HEAD), newest first by committer time.
func (r *Repo) CommitsSince(ctx context.Context, hash string) ([]Commit, error) {
	excluded, err := r.ancestors(plumbing.NewHash(hash))
	if err != nil {
		return nil, err
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if excluded[c.Hash] || c.NumParents() > 1 {
			return nil
		}
		commits = append(commits, newCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking log: %w", err)
	}

	logDebug("[git] CommitsSince %s: %d commits", hash, len(commits))
	return commits, nil
}

// ancestors returns hash and every commit reachable from it.
func (r *Repo) ancestors(hash plumbing.Hash) (map[plumbing.Hash]bool, error) {
	start, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}

	seen := make(map[plumbing.Hash]bool)
	iter := object.NewCommitPreorderIter(start, nil, nil)
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking ancestors of %s: %w", hash, err)
	}
	return seen, nil
}

// CreateTag creates a lightweight tag at HEAD. An existing tag of the same
// name is reported as git.ErrTagExists.
func (r *Repo) CreateTag(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD reference: %w", err)
	}

	if _, err := r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}

	logDebug("[git] CreateTag: %s at %s", name, head.Hash())
	return nil
}

// Head returns the commit HEAD points at.
func (r *Repo) Head() (Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Commit{}, fmt.Errorf("getting HEAD reference: %w", err)
	}
	c, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return Commit{}, fmt.Errorf("reading HEAD commit %s: %w", ref.Hash(), err)
	}
	return newCommit(c), nil
}

func newCommit(c *object.Commit) Commit {
	hash := c.Hash.String()
	return Commit{
		Hash:      hash,
		ShortHash: hash[:shortHashLen],
		Subject:   subject(c.Message),
	}
}

// subject mirrors git's %s: the first paragraph of the message with its
// lines joined by spaces.
func subject(message string) string {
	message = strings.TrimLeft(message, "\n")
	paragraph, _, _ := strings.Cut(message, "\n\n")
	lines := strings.Fields(strings.ReplaceAll(paragraph, "\n", " "))
	return strings.Join(lines, " ")
}
