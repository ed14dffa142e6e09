package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		scenario, err := LoadScenario(file)
		require.NoError(t, err, file)

		t.Run(scenario.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestTraceJSON_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/bulk_lifecycle.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := TraceJSON(scenario, first)
	require.NoError(t, err)
	b, err := TraceJSON(scenario, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestTraceJSON_OmitsEmptyCallToken(t *testing.T) {
	scenario := &Scenario{Name: "no_token", Description: "d", Steps: []Step{{Op: OpLength}}}
	result, err := Run(scenario)
	require.NoError(t, err)

	data, err := TraceJSON(scenario, result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"no_token","steps":[{"events":[],"op":"length","result":{"length":0}}]}`,
		string(data))
}
