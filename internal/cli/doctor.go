package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/reltag/internal/errors"
	"github.com/ariel-frischer/reltag/internal/health"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [version-file]",
		Short: "Check that a release can be tagged",
		Long: `Check the git executable, the repository and its HEAD commit. With a
version file, also report the version it holds and the previous version
recovered from its history. Nothing is written.`,
		Example: `  # Check the current repository
  reltag doctor

  # Also check the version file
  reltag doctor VERSION`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			repoDir, err := filepath.Abs(cfg.RepoPath)
			if err != nil {
				return clierrors.GitNotRepository(cfg.RepoPath, err)
			}

			opts := health.Options{
				RepoDir:   repoDir,
				Backend:   cfg.Backend,
				GitBinary: cfg.GitBinary,
				TagPrefix: cfg.TagPrefix,
			}
			if len(args) == 1 {
				if opts.VersionFile, err = repoRelative(repoDir, args[0]); err != nil {
					return err
				}
			}

			report := health.RunHealthChecks(cmd.Context(), opts)
			fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
			if !report.Passed {
				return clierrors.NewPrerequisiteError("one or more checks failed",
					"Fix the failed checks above and run 'reltag doctor' again")
			}
			return nil
		},
	}
	cmd.Flags().String(flagPrefix, "", "Tag name prefix override")
	cmd.Flags().String(flagBackend, "", "Git backend override: gogit or git")
	return cmd
}
