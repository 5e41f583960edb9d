package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/reltag/internal/config"
	clierrors "github.com/ariel-frischer/reltag/internal/errors"
)

func showConfig(t *testing.T, args ...string) config.Configuration {
	t.Helper()
	stdout, _, err := run(t, append([]string{"config", "show"}, args...)...)
	require.NoError(t, err)

	var cfg config.Configuration
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &cfg))
	return cfg
}

func TestConfigShow_Defaults(t *testing.T) {
	repo := t.TempDir()
	cfg := showConfig(t, "-C", repo)

	assert.Equal(t, repo, cfg.RepoPath)
	assert.Equal(t, "v", cfg.TagPrefix)
	assert.Equal(t, config.DefaultChangelogFilter, cfg.ChangelogFilter)
	assert.Equal(t, config.BackendGoGit, cfg.Backend)
}

func TestConfigShow_ProjectFileEnvAndFlags(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, config.ProjectConfigName),
		[]byte("tag_prefix: rel-\nchangelog_filter: Fix\n"), 0o644))
	t.Setenv("RELTAG_BACKEND", "git")

	cfg := showConfig(t, "-C", repo)
	assert.Equal(t, "rel-", cfg.TagPrefix)
	assert.Equal(t, "Fix", cfg.ChangelogFilter)
	assert.Equal(t, config.BackendGit, cfg.Backend)

	cfg = showConfig(t, "-C", repo, "--prefix", "V", "--backend", "gogit")
	assert.Equal(t, "V", cfg.TagPrefix)
	assert.Equal(t, config.BackendGoGit, cfg.Backend)
}

func TestConfigShow_ExplicitConfigFile(t *testing.T) {
	explicit := filepath.Join(t.TempDir(), "reltag.json")
	require.NoError(t, os.WriteFile(explicit, []byte(`{"git_binary": "/opt/git/bin/git"}`), 0o644))

	cfg := showConfig(t, "-C", t.TempDir(), "--config", explicit)
	assert.Equal(t, "/opt/git/bin/git", cfg.GitBinary)
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, config.ProjectConfigName),
		[]byte("backend: svn\n"), 0o644))

	_, _, err := run(t, "config", "show", "-C", repo)
	require.Error(t, err)
	assert.Equal(t, clierrors.Configuration, clierrors.AsCLIError(err).Category)
	assert.Contains(t, err.Error(), "must be one of: gogit, git")
}
