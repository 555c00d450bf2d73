package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testEnv is an isolated config and data directory for running commands.
// Commands read the time from now, the wall clock unless a test sets one.
type testEnv struct {
	t       *testing.T
	config  string
	dataDir string
	now     func() time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	e := &testEnv{
		t:       t,
		config:  filepath.Join(dir, "config"),
		dataDir: filepath.Join(dir, "data"),
		now:     time.Now,
	}
	require.NoError(t, os.MkdirAll(e.config, 0o755))
	content := "backend: sqlite\ndata_dir: " + e.dataDir + "\nlog_level: error\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.config, "config.yaml"), []byte(content), 0o644))
	return e
}

// cmdResult holds the outcome of one command.
type cmdResult struct {
	stdout   string
	stderr   string
	err      error
	exitCode int
}

// run executes routetimer with args, feeding stdin to prompts.
func (e *testEnv) run(stdin string, args ...string) cmdResult {
	e.t.Helper()
	root := newRootCmd(e.now)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", e.config}, args...))

	err := root.Execute()
	return cmdResult{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		err:      err,
		exitCode: exitCode(err),
	}
}

// mustRun executes routetimer and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	r := e.run("", args...)
	require.NoError(e.t, r.err, "routetimer %v\nstdout: %s\nstderr: %s", args, r.stdout, r.stderr)
	return r
}

// fakeClock is a settable clock shared by every command of a test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "parsing %q", s)
	return v
}
