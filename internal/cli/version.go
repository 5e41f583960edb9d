package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/reltag/internal/build"
	"github.com/ariel-frischer/reltag/internal/output"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/reltag"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long: `Display version, commit, build date, and Go version information for reltag.
The global --plain flag switches to a script-friendly layout.`,
		Example: `  # Show version info
  reltag version

  # Plain output (for scripts)
  reltag version --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if plain, _ := cmd.Flags().GetBool(flagPlain); plain {
				printPlainVersion(cmd.OutOrStdout())
			} else {
				printPrettyVersion(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(out io.Writer) {
	fmt.Fprintf(out, "reltag %s\n", build.Version)
	fmt.Fprintf(out, "commit: %s\n", build.Commit)
	fmt.Fprintf(out, "built: %s\n", build.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(out io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s %s\n", cyan("reltag"), dim("version-file driven release tagging"))
	output.Separator(out, "build")
	output.Field(out, "Version", build.Version)
	output.Field(out, "Commit", truncateCommit(build.Commit))
	output.Field(out, "Built", build.BuildDate)
	output.Field(out, "Go", runtime.Version())
	output.Field(out, "Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
	output.Field(out, "Source", SourceURL)
	if build.IsDevBuild() {
		output.Skip(out, "development build")
	}
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
