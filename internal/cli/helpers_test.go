package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/msgstore/internal/testutil"
)

// cliRunner runs commands against one temp database, sharing a fixed call
// token sequence across invocations.
type cliRunner struct {
	t      *testing.T
	db     string
	tokens *testutil.FixedTokens
}

func newCLIRunner(t *testing.T) *cliRunner {
	t.Helper()
	return &cliRunner{
		t:      t,
		db:     filepath.Join(t.TempDir(), "test.db"),
		tokens: testutil.NewFixedTokens("call-1", "call-2", "call-3", "call-4", "call-5", "call-6"),
	}
}

// run executes the CLI with --db set and returns stdout.
func (r *cliRunner) run(args ...string) (string, error) {
	r.t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCommand(&RootOptions{Tokens: r.tokens})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db", r.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// mustRun executes the CLI and fails the test on error.
func (r *cliRunner) mustRun(args ...string) string {
	r.t.Helper()
	out, err := r.run(args...)
	require.NoError(r.t, err, "args: %v", args)
	return out
}

// runJSON executes the CLI with --format json and decodes the envelope.
func (r *cliRunner) runJSON(args ...string) (CLIResponse, error) {
	r.t.Helper()
	out, err := r.run(append([]string{"--format", "json"}, args...)...)
	var resp CLIResponse
	require.NoError(r.t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, err
}

// dataAs re-decodes resp.Data into v.
func dataAs(t *testing.T, resp CLIResponse, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}
