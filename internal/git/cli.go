package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
)

// CLI runs git queries by shelling out to the git binary. Each method
// issues exactly one git command with Dir as its working directory.
type CLI struct {
	// Binary is the git executable name or path.
	Binary string
	// Dir is the working directory the commands run in.
	Dir string

	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCLI returns a CLI backend using binary (default "git") inside dir.
func NewCLI(binary, dir string) *CLI {
	if binary == "" {
		binary = "git"
	}
	return &CLI{Binary: binary, Dir: dir, command: exec.CommandContext}
}

// run executes git with args and returns stdout. Failures carry git's stderr.
func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	cmd := c.command(ctx, c.Binary, args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logDebug("[git] exec: %s %s", c.Binary, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return stdout.String(), nil
}

// LastRemovedLine implements the same contract as Repo.LastRemovedLine on
// top of `git log -p` output, one record per commit.
func (c *CLI) LastRemovedLine(ctx context.Context, path string) (string, bool, error) {
	out, err := c.run(ctx, "log", "-p", "--no-color", "--no-merges", "--format=%x1e", "--", path)
	if err != nil {
		return "", false, err
	}

	for _, record := range strings.Split(out, recordSep) {
		if line, ok := LastRemovedLineInPatch(record); ok {
			logDebug("[git] LastRemovedLine: %q from %s", line, path)
			return line, true, nil
		}
	}
	return "", false, nil
}

// ResolveTag returns the commit hash the named tag points at.
func (c *CLI) ResolveTag(ctx context.Context, name string) (string, error) {
	out, err := c.run(ctx, "rev-list", "-n", "1", name)
	if err != nil {
		return "", err
	}
	hash := strings.TrimSpace(out)
	if hash == "" {
		return "", fmt.Errorf("resolving tag %s: no commit", name)
	}
	return hash, nil
}

// CommitsSince returns the non-merge commits in hash..HEAD, newest first.
func (c *CLI) CommitsSince(ctx context.Context, hash string) ([]Commit, error) {
	out, err := c.run(ctx, "log", "--no-merges", "--format=%H%x1f%h%x1f%s", hash+"..HEAD")
	if err != nil {
		return nil, err
	}
	return parseLogRecords(out), nil
}

// CreateTag creates a lightweight tag at HEAD.
func (c *CLI) CreateTag(ctx context.Context, name string) error {
	_, err := c.run(ctx, "tag", name)
	return err
}

// parseLogRecords parses "%H\x1f%h\x1f%s" lines.
func parseLogRecords(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, fieldSep, 3)
		if len(fields) != 3 {
			continue
		}
		commits = append(commits, Commit{
			Hash:      fields[0],
			ShortHash: fields[1],
			Subject:   fields[2],
		})
	}
	return commits
}
