package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/ariel-frischer/reltag/internal/errors"
	"github.com/ariel-frischer/reltag/internal/testutil"
)

func TestDoctorCmd_HealthyRepository(t *testing.T) {
	g, _ := releaseFixture(t)

	stdout, _, err := run(t, "doctor", "-C", g.Dir, "VERSION")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Repository: "+g.Dir)
	assert.Contains(t, stdout, "✓ HEAD: ")
	assert.Contains(t, stdout, "1.1.0, next tag v1.1.0, previous tag v1.0.0")
	assert.False(t, g.HasTag("v1.1.0"), "doctor never tags")
}

func TestDoctorCmd_EmptyRepository(t *testing.T) {
	g := testutil.NewGitRepo(t)

	stdout, _, err := run(t, "doctor", "-C", g.Dir)
	require.Error(t, err)
	assert.Equal(t, clierrors.Prerequisite, clierrors.AsCLIError(err).Category)
	assert.Contains(t, stdout, "✗ HEAD")
}
