package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: append_one
description: A single append lands at index 0
call_token: call-a
steps:
  - op: append
    args:
      text: hello
    expect:
      result:
        index: 0
assertions:
  - type: length
    value: 1
`

const failingScenario = `name: wrong_length
description: The expected length is deliberately wrong
steps:
  - op: append
    args:
      text: hello
assertions:
  - type: length
    value: 2
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTestCommand_RequiresDirectory(t *testing.T) {
	r := newCLIRunner(t)
	_, err := r.run("test")
	require.Error(t, err)
}

func TestTestCommand_MissingDirectory(t *testing.T) {
	r := newCLIRunner(t)
	_, err := r.run("test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommand_Pass(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "append_one", passingScenario)

	r := newCLIRunner(t)
	out := r.mustRun("test", dir)
	assert.Contains(t, out, "✓ append_one")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_Fail(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "wrong_length", failingScenario)

	r := newCLIRunner(t)
	out, err := r.run("test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_length")
	assert.Contains(t, out, "assertion failed: length")
}

func TestTestCommand_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken", "name: broken\nbogus: true\n")

	r := newCLIRunner(t)
	out, err := r.run("test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "append_one", passingScenario)
	r := newCLIRunner(t)

	out := r.mustRun("test", dir, "--update")
	assert.Contains(t, out, "(golden updated)")

	golden := filepath.Join(dir, "golden", "append_one.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"call_token":"call-a"`)

	r.mustRun("test", dir)

	require.NoError(t, os.WriteFile(golden, []byte(`{}`), 0644))
	out, err = r.run("test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "append_one", passingScenario)
	writeScenario(t, dir, "wrong_length", failingScenario)

	r := newCLIRunner(t)
	out := r.mustRun("test", dir, "--filter", "append_*")
	assert.Contains(t, out, "1 total")

	out = r.mustRun("test", dir, "--filter", "nothing_*")
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "append_one", passingScenario)
	writeScenario(t, dir, "wrong_length", failingScenario)

	r := newCLIRunner(t)
	resp, err := r.runJSON("test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)

	var result TestResult
	dataAs(t, resp, &result)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
}
