package cli

// Exit codes for the reltag CLI
const (
	// ExitSuccess indicates the tag was created (or the dry run completed)
	ExitSuccess = 0

	// ExitFailure indicates any error: a missing or invalid argument, an
	// unreadable version file, invalid configuration or a failed tag creation
	ExitFailure = 1
)

// ExitCode maps the result of Execute to a process exit code.
func ExitCode(err error) int {
	if err != nil {
		return ExitFailure
	}
	return ExitSuccess
}
