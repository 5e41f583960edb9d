// Package health provides the checks behind 'reltag doctor'. They verify the
// repository, the git backend and the version file before a release is cut,
// and return a structured report rather than failing on the first problem.
package health

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/ariel-frischer/reltag/internal/config"
	"github.com/ariel-frischer/reltag/internal/git"
	"github.com/ariel-frischer/reltag/internal/release"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	// RepoDir is the absolute repository directory.
	RepoDir string
	// Backend and GitBinary come from the effective configuration.
	Backend   string
	GitBinary string
	// VersionFile, when set, is checked for readability and history.
	VersionFile string
	// TagPrefix forms the tag names reported for VersionFile.
	TagPrefix string
	// LookPath resolves executables; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed {
			report.Passed = false
		}
	}

	add(CheckGitBinary(opts))

	repo, repoCheck := CheckRepository(opts.RepoDir)
	add(repoCheck)
	if repo == nil {
		return report
	}
	add(CheckHead(repo))

	if opts.VersionFile != "" {
		add(CheckVersionFile(ctx, repo, opts))
	}
	return report
}

// CheckGitBinary checks that the git executable is available. A missing
// binary only fails the check when the git backend is selected.
func CheckGitBinary(opts Options) CheckResult {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	binary := opts.GitBinary
	if binary == "" {
		binary = "git"
	}

	path, err := lookPath(binary)
	if err != nil {
		if opts.Backend == config.BackendGit {
			return CheckResult{Name: "Git CLI", Passed: false, Message: fmt.Sprintf("%s not found in PATH", binary)}
		}
		return CheckResult{Name: "Git CLI", Passed: true, Message: fmt.Sprintf("%s not found (only needed for --backend git)", binary)}
	}
	return CheckResult{Name: "Git CLI", Passed: true, Message: "found at " + path}
}

// CheckRepository opens the repository at dir.
func CheckRepository(dir string) (*git.Repo, CheckResult) {
	repo, err := git.Open(dir)
	if err != nil {
		return nil, CheckResult{Name: "Repository", Passed: false, Message: err.Error()}
	}
	return repo, CheckResult{Name: "Repository", Passed: true, Message: repo.Root()}
}

// CheckHead checks that HEAD points at a commit a tag can be created on.
func CheckHead(repo *git.Repo) CheckResult {
	head, err := repo.Head()
	if err != nil {
		return CheckResult{Name: "HEAD", Passed: false, Message: "no commit to tag: " + err.Error()}
	}
	return CheckResult{Name: "HEAD", Passed: true, Message: fmt.Sprintf("%s %s", head.ShortHash, head.Subject)}
}

// CheckVersionFile reads the version file and looks up its previous version.
func CheckVersionFile(ctx context.Context, repo *git.Repo, opts Options) CheckResult {
	name := "Version file"

	version, err := release.ReadVersion(osfs.New(opts.RepoDir), opts.VersionFile)
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	if version == "" {
		return CheckResult{Name: name, Passed: false, Message: opts.VersionFile + " is empty"}
	}

	msg := fmt.Sprintf("%s, next tag %s", version, release.TagName(opts.TagPrefix, version))
	prev, found, err := repo.LastRemovedLine(ctx, opts.VersionFile)
	switch {
	case err != nil:
		msg += fmt.Sprintf(", history unreadable: %v", err)
	case !found:
		msg += ", no previous version (changelog will be skipped)"
	default:
		msg += ", previous tag " + release.TagName(opts.TagPrefix, strings.TrimSpace(prev))
	}
	return CheckResult{Name: name, Passed: true, Message: msg}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		if !check.Passed {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
