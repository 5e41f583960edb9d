// Package testutil provides test utilities and helpers for reltag tests:
// throwaway go-git repositories and a helper-process fake for code that
// shells out to git.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"testing"
)

// HelperProcessConfig configures the behavior of TestHelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
}

// Environment variable names used by TestHelperProcess.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// TestHelperProcess is called from a test function to implement the helper
// process pattern. When invoked with GO_WANT_HELPER_PROCESS=1 it writes the
// configured output and exits without returning.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := HelperProcessConfig{}
	if raw := os.Getenv(EnvHelperProcessConfig); raw != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(raw), &config)
	}

	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	os.Exit(config.ExitCode)
}

// FakeGit records git invocations and answers them through helper processes.
// Responses are keyed by the git subcommand (the first argument).
type FakeGit struct {
	t         *testing.T
	testName  string
	responses map[string]HelperProcessConfig

	mu    sync.Mutex
	calls [][]string
}

// NewFakeGit returns a FakeGit whose helper processes run testName, which
// must call TestHelperProcess.
func NewFakeGit(t *testing.T, testName string, responses map[string]HelperProcessConfig) *FakeGit {
	t.Helper()
	return &FakeGit{t: t, testName: testName, responses: responses}
}

// Command has the signature of exec.CommandContext. Subcommands without a
// configured response succeed with empty output.
func (f *FakeGit) Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), args...))
	f.mu.Unlock()

	var config HelperProcessConfig
	if len(args) > 0 {
		config = f.responses[args[0]]
	}

	testBinary, err := os.Executable()
	if err != nil {
		f.t.Fatalf("failed to get test binary path: %v", err)
	}

	cmd := exec.CommandContext(ctx, testBinary, "-test.run=^"+f.testName+"$")
	env := append(os.Environ(), EnvWantHelperProcess+"=1")
	if raw, err := json.Marshal(config); err == nil {
		env = append(env, EnvHelperProcessConfig+"="+string(raw))
	}
	cmd.Env = env
	return cmd
}

// Calls returns the argument lists of every invocation so far.
func (f *FakeGit) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}
