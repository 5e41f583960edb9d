package errors

import "fmt"

// Usage is the one-line command syntax shown with argument errors.
const Usage = "reltag <version-file> [changelog-file] [commit-filter-pattern]"

// MissingVersionFile creates an error for the missing version-file argument.
func MissingVersionFile() *CLIError {
	return NewArgumentErrorWithUsage(
		"version file is required",
		Usage,
		"Pass the path of the file holding the version string",
		"Example: reltag VERSION CHANGELOG.md",
	)
}

// TooManyArguments creates an error when more positional arguments are given than reltag accepts.
func TooManyArguments(n int) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("accepts at most 3 arguments, received %d", n),
		Usage,
		"Quote the commit filter pattern if it contains spaces",
	)
}

// InvalidFilterPattern creates an error for a commit filter that is not a valid regular expression.
func InvalidFilterPattern(pattern string, err error) *CLIError {
	return &CLIError{
		Category: Argument,
		Message:  fmt.Sprintf("invalid commit filter pattern %q: %v", pattern, err),
		Usage:    Usage,
		Remediation: []string{
			"The pattern is a Go regular expression (RE2 syntax)",
			"Escape special characters, e.g. 'feat\\(api\\)'",
		},
		Cause: err,
	}
}

// VersionFileUnreadable creates an error when the version file cannot be read.
func VersionFileUnreadable(path string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("cannot read version file %s: %v", path, err),
		Remediation: []string{
			"Check that the path is relative to the repository (--repo) or absolute",
			"Verify the file exists: ls " + path,
		},
		Cause: err,
	}
}

// GitNotRepository creates an error when the target directory is not a git repository.
func GitNotRepository(path string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("not a git repository: %s", path),
		Remediation: []string{
			"Run reltag from inside a git repository",
			"Or point at one with --repo <path>",
		},
		Cause: err,
	}
}

// ConfigParseError creates an error for config file parsing failures.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load configuration from %s", path),
		"Check the configuration file syntax",
		"Show the effective configuration with: reltag config show",
	)
}

// TagCreationFailed creates an error when the backend refuses to create the tag.
func TagCreationFailed(tag string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("creating tag %s", tag),
		"List existing tags with: git tag --list "+tag,
		"Delete a stale local tag with: git tag -d "+tag,
	)
}

// GitBinaryNotFound creates an error when the git backend's executable is not on PATH.
func GitBinaryNotFound(binary string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("git executable %q not found", binary),
		Remediation: []string{
			"Install git or set git_binary in .reltag.yml",
			"Or use the built-in backend: --backend gogit",
		},
		Cause: err,
	}
}

// PathOutsideRepository creates an error for a file argument that does not live under the repository.
func PathOutsideRepository(path, repo string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("%s is outside the repository %s", path, repo),
		Usage,
		"Pass paths relative to the repository, or point --repo at the repository containing them",
	)
}
