// Package cli wires the reltag command line: flag and config resolution,
// backend selection and the release workflow itself.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/reltag/internal/config"
	clierrors "github.com/ariel-frischer/reltag/internal/errors"
	"github.com/ariel-frischer/reltag/internal/git"
	"github.com/ariel-frischer/reltag/internal/release"
)

const (
	flagRepo    = "repo"
	flagPrefix  = "prefix"
	flagBackend = "backend"
	flagDryRun  = "dry-run"
	flagConfig  = "config"
	flagPlain   = "plain"
	flagDebug   = "debug"
)

// NewRootCmd builds the reltag command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   clierrors.Usage,
		Short: "Tag a release from the version file and prepend a changelog section",
		Long: `reltag reads the version string from <version-file>, recovers the previous
version from the file's git history and tags HEAD with "v<version>".

When [changelog-file] is given, a section headed "## <version> <date>" listing
the commits since the previous tag is prepended to it. Only commit lines
matching [commit-filter-pattern] (a regular expression, default "Add") are
listed. The changelog is left unstaged for review.`,
		Example: `  # Tag HEAD with the version in VERSION
  reltag VERSION

  # Tag and prepend a changelog section with commits mentioning "Add"
  reltag VERSION CHANGELOG.md

  # Include fixes as well, and preview without writing anything
  reltag --dry-run VERSION CHANGELOG.md '^- (Add|Fix)'

  # Tag another repository using the git executable
  reltag -C ../service --backend git VERSION`,
		Args:              validateArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: applyGlobalFlags,
		RunE:              runRelease,
	}

	cmd.PersistentFlags().StringP(flagRepo, "C", "", "Repository directory (default: current directory)")
	cmd.PersistentFlags().String(flagConfig, "", "Path to an explicit config file (YAML or .json)")
	cmd.PersistentFlags().Bool(flagPlain, false, "Disable colored output")
	cmd.PersistentFlags().Bool(flagDebug, false, "Trace git operations to stderr")
	cmd.Flags().String(flagPrefix, "", `Tag name prefix (default "v")`)
	cmd.Flags().String(flagBackend, "", "Git backend: gogit or git (default \"gogit\")")
	cmd.Flags().Bool(flagDryRun, false, "Print the changelog section and tag without writing either")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), clierrors.Usage,
			"Run 'reltag --help' for the list of flags")
	})

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDoctorCmd())
	return cmd
}

// Execute runs the command line against os.Args. Errors are printed to
// stderr before being returned.
func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:])
}

// ExecuteContext runs the command tree with args.
func ExecuteContext(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		clierrors.FprintError(cmd.ErrOrStderr(), err, clierrors.Runtime)
	}
	return err
}

func validateArgs(_ *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return clierrors.MissingVersionFile()
	case len(args) > 3:
		return clierrors.TooManyArguments(len(args))
	}
	return nil
}

func applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	if plain, _ := cmd.Flags().GetBool(flagPlain); plain {
		color.NoColor = true
	}
	if debug, _ := cmd.Flags().GetBool(flagDebug); debug {
		stderr := cmd.ErrOrStderr()
		git.SetDebugLogger(func(format string, args ...any) {
			fmt.Fprintf(stderr, format+"\n", args...)
		})
	} else {
		git.SetDebugLogger(nil)
	}
	return nil
}

// loadConfig resolves the configuration and applies flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	repoPath, _ := cmd.Flags().GetString(flagRepo)
	configPath, _ := cmd.Flags().GetString(flagConfig)

	cfg, err := config.Load(config.LoadOptions{
		RepoPath:      repoPath,
		ConfigPath:    configPath,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		source := configPath
		if source == "" {
			source = "config files and environment"
		}
		return nil, clierrors.ConfigParseError(source, err)
	}

	if f := cmd.Flags().Lookup(flagPrefix); f != nil && f.Changed {
		cfg.TagPrefix = f.Value.String()
	}
	if f := cmd.Flags().Lookup(flagBackend); f != nil && f.Changed {
		cfg.Backend = f.Value.String()
	}
	return cfg, nil
}

func runRelease(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	repoDir, err := filepath.Abs(cfg.RepoPath)
	if err != nil {
		return clierrors.GitNotRepository(cfg.RepoPath, err)
	}

	repo, err := openRepository(cfg, repoDir)
	if err != nil {
		return err
	}

	opts := release.Options{
		Filter:    cfg.ChangelogFilter,
		TagPrefix: cfg.TagPrefix,
	}
	opts.DryRun, _ = cmd.Flags().GetBool(flagDryRun)
	if opts.VersionFile, err = repoRelative(repoDir, args[0]); err != nil {
		return err
	}
	if len(args) > 1 && args[1] != "" {
		if opts.ChangelogFile, err = repoRelative(repoDir, args[1]); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		opts.Filter = args[2]
	}

	tagger := &release.Tagger{
		Repo: repo,
		FS:   osfs.New(repoDir),
		Out:  cmd.OutOrStdout(),
	}
	_, err = tagger.Run(cmd.Context(), opts)
	return err
}

// openRepository selects the git backend named by the configuration.
func openRepository(cfg *config.Configuration, repoDir string) (release.Repository, error) {
	switch cfg.Backend {
	case config.BackendGit:
		if _, err := exec.LookPath(cfg.GitBinary); err != nil {
			return nil, clierrors.GitBinaryNotFound(cfg.GitBinary, err)
		}
		if info, err := os.Stat(repoDir); err != nil || !info.IsDir() {
			return nil, clierrors.GitNotRepository(repoDir, err)
		}
		return git.NewCLI(cfg.GitBinary, repoDir), nil
	case config.BackendGoGit:
		repo, err := git.Open(repoDir)
		if err != nil {
			return nil, clierrors.GitNotRepository(repoDir, err)
		}
		return repo, nil
	default:
		return nil, clierrors.NewConfigError(
			fmt.Sprintf("unknown backend %q", cfg.Backend),
			"Use --backend gogit or --backend git",
		)
	}
}

// repoRelative expresses a file argument relative to repoDir. Relative
// arguments are already relative to the repository and pass through.
func repoRelative(repoDir, path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	rel, err := filepath.Rel(repoDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", clierrors.PathOutsideRepository(path, repoDir)
	}
	return rel, nil
}
