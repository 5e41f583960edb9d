package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/reltag/internal/build"
)

func TestVersionCmd_Plain(t *testing.T) {
	stdout, _, err := run(t, "version", "--plain")
	require.NoError(t, err)

	assert.Contains(t, stdout, "reltag "+build.Version+"\n")
	assert.Contains(t, stdout, "commit: "+build.Commit+"\n")
	assert.Contains(t, stdout, "go: "+runtime.Version()+"\n")
}

func TestPrintPrettyVersion(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	printPrettyVersion(&buf)
	assert.Contains(t, buf.String(), "Version:")
	assert.Contains(t, buf.String(), SourceURL)
}

func TestVersionCmd_Alias(t *testing.T) {
	stdout, _, err := run(t, "v", "--plain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "reltag ")
}

func TestTruncateCommit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commit string
		want   string
	}{
		"long hash":  {commit: "0123456789abcdef", want: "01234567"},
		"short hash": {commit: "abc", want: "abc"},
		"unknown":    {commit: "unknown", want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, truncateCommit(tt.commit))
		})
	}
}

func TestPrintPlainVersion_Writer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printPlainVersion(&buf)
	assert.Contains(t, buf.String(), "platform: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}
