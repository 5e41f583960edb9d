// Package release implements the release tagging workflow: read the version
// file, recover the previous version from the file's history, optionally
// prepend a changelog section covering the commits since the previous tag,
// and tag HEAD with the new version.
//
// The workflow is strictly sequential. Only a missing or unreadable version
// file, an invalid filter pattern, and a failure to create the tag stop a
// run; every other irregularity is reported and the run continues.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ariel-frischer/reltag/internal/changelog"
	clierrors "github.com/ariel-frischer/reltag/internal/errors"
	"github.com/ariel-frischer/reltag/internal/git"
	"github.com/ariel-frischer/reltag/internal/output"
)

// DefaultFilter is used when Options.Filter is empty.
const DefaultFilter = "Add"

// Repository is the version-control surface the workflow needs.
// *git.Repo and *git.CLI both satisfy it.
type Repository interface {
	// LastRemovedLine returns the last removed line of the most recent
	// change to path that removed a line, or ("", false, nil) if none.
	LastRemovedLine(ctx context.Context, path string) (string, bool, error)
	// ResolveTag returns the commit hash a tag points at.
	ResolveTag(ctx context.Context, name string) (string, error)
	// CommitsSince returns the non-merge commits in hash..HEAD, newest first.
	CommitsSince(ctx context.Context, hash string) ([]git.Commit, error)
	// CreateTag tags HEAD.
	CreateTag(ctx context.Context, name string) error
}

// Options are the inputs of a single run.
type Options struct {
	// VersionFile is the path of the file holding the version string. Required.
	VersionFile string
	// ChangelogFile enables changelog writing when non-empty.
	ChangelogFile string
	// Filter is the regular expression commit lines must match (default "Add").
	Filter string
	// TagPrefix is prepended to versions to form tag names.
	TagPrefix string
	// DryRun performs every read and prints the result without writing
	// the changelog or creating the tag.
	DryRun bool
}

// Result describes what a run did.
type Result struct {
	NewVersion       string
	NewTag           string
	PreviousVersion  string
	PreviousTag      string
	Entry            *changelog.Entry
	ChangelogWritten bool
	TagCreated       bool
}

// Tagger runs the release workflow against a repository and a filesystem
// rooted at the repository directory.
type Tagger struct {
	Repo Repository
	FS   billy.Filesystem
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
	// Out receives all operator-facing output; defaults to io.Discard.
	Out io.Writer
}

// Run executes the workflow. Errors returned are *errors.CLIError values.
func (t *Tagger) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.VersionFile == "" {
		return nil, clierrors.MissingVersionFile()
	}

	pattern := opts.Filter
	if pattern == "" {
		pattern = DefaultFilter
	}
	filter, err := regexp.Compile(pattern)
	if err != nil {
		return nil, clierrors.InvalidFilterPattern(pattern, err)
	}

	out := t.out()
	now := t.now()
	writeChangelog := opts.ChangelogFile != ""
	if !writeChangelog {
		output.Skip(out, "No changelog file given, skipping changelog")
	}

	newVersion, err := ReadVersion(t.FS, opts.VersionFile)
	if err != nil {
		return nil, clierrors.VersionFileUnreadable(opts.VersionFile, err)
	}
	if newVersion == "" {
		output.Warn(out, "%s is empty", opts.VersionFile)
	}
	res := &Result{
		NewVersion: newVersion,
		NewTag:     TagName(opts.TagPrefix, newVersion),
	}

	res.PreviousVersion = t.previousVersion(ctx, opts.VersionFile)
	if res.PreviousVersion != "" {
		res.PreviousTag = TagName(opts.TagPrefix, res.PreviousVersion)
	} else if writeChangelog {
		output.Skip(out, "No previous version found in the history of %s, skipping changelog", opts.VersionFile)
		writeChangelog = false
	}

	if writeChangelog {
		res.Entry = t.buildEntry(ctx, res, filter, now)
		fmt.Fprintln(out)
		output.Separator(out, "changelog")
		fmt.Fprint(out, res.Entry.String())
		output.Separator(out, "end")
		fmt.Fprintln(out)

		if opts.DryRun {
			output.Skip(out, "Dry run: not writing %s", opts.ChangelogFile)
		} else if err := changelog.Prepend(t.FS, opts.ChangelogFile, res.Entry); err != nil {
			if errors.Is(err, changelog.ErrChangelogNotFound) {
				output.Warn(out, "Changelog %s does not exist, skipping changelog", opts.ChangelogFile)
			} else {
				output.Warn(out, "Could not update changelog: %v", err)
			}
		} else {
			res.ChangelogWritten = true
		}
	}

	printSummary(out, res, opts, now)

	if opts.DryRun {
		output.Skip(out, "Dry run: not creating tag %s", res.NewTag)
		return res, nil
	}

	if err := t.Repo.CreateTag(ctx, res.NewTag); err != nil {
		return res, clierrors.TagCreationFailed(res.NewTag, err)
	}
	res.TagCreated = true
	output.Success(out, "Created tag %s. Push it with: git push origin %s", res.NewTag, res.NewTag)

	return res, nil
}

// previousVersion looks the prior version up in history, reporting lookup
// failures as warnings.
func (t *Tagger) previousVersion(ctx context.Context, versionFile string) string {
	line, found, err := t.Repo.LastRemovedLine(ctx, versionFile)
	if err != nil {
		output.Warn(t.out(), "Could not read history of %s: %v", versionFile, err)
		return ""
	}
	if !found {
		return ""
	}
	return strings.TrimSpace(line)
}

// buildEntry collects and filters the commits since the previous tag.
// Resolution or log failures leave the entry with an empty body.
func (t *Tagger) buildEntry(ctx context.Context, res *Result, filter *regexp.Regexp, now time.Time) *changelog.Entry {
	entry := &changelog.Entry{Version: res.NewVersion, Date: now}
	out := t.out()

	hash, err := t.Repo.ResolveTag(ctx, res.PreviousTag)
	if err != nil {
		output.Warn(out, "Could not resolve previous tag %s: %v", res.PreviousTag, err)
		return entry
	}

	commits, err := t.Repo.CommitsSince(ctx, hash)
	if err != nil {
		output.Warn(out, "Could not list commits since %s: %v", res.PreviousTag, err)
		return entry
	}

	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, changelog.FormatCommitLine(c.Subject, c.ShortHash))
	}
	entry.Lines = changelog.Filter(lines, filter)
	return entry
}

func printSummary(out io.Writer, res *Result, opts Options, now time.Time) {
	previous := res.PreviousTag
	if previous == "" {
		previous = "(none)"
	}

	fmt.Fprintln(out)
	output.Field(out, "Date", now.Format(changelog.DateLayout))
	output.Field(out, "New tag", res.NewTag)
	output.Field(out, "Previous tag", previous)
	fmt.Fprintln(out)

	if res.ChangelogWritten {
		output.Info(out, "%s was updated but not staged. Review and commit it.", opts.ChangelogFile)
	}
}

func (t *Tagger) out() io.Writer {
	if t.Out == nil {
		return io.Discard
	}
	return t.Out
}

func (t *Tagger) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

// ReadVersion returns the trimmed contents of the version file.
func ReadVersion(fs billy.Filesystem, path string) (string, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// TagName forms a tag from a version string.
func TagName(prefix, version string) string {
	return prefix + version
}
