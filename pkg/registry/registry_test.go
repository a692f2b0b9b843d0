package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_FromConfigs(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)

	assert.NoError(t, reg.Validate([]string{
		"preprocess-goal",
		"generate-resolution",
		"evaluate-resolution",
		"create-execution-plan",
		"generate-coaching-response",
	}))

	a, ok := reg.Find("create-execution-plan")
	require.True(t, ok)
	assert.Equal(t, "create_execution_plan", a.Operation)
	assert.Contains(t, a.OutputVariables, "plan")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{
		{ID: "a", TaskType: "preprocess-goal", Timeout: "2m"},
		{ID: "b", TaskType: "preprocess-goal", Timeout: "soon"},
		{ID: "c", TaskType: "evaluate-resolution", Retries: 3},
		{ID: "d"},
	}}

	err := reg.Validate([]string{"preprocess-goal", "generate-resolution"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `"preprocess-goal" registered more than once`)
	assert.Contains(t, msg, `invalid timeout "soon"`)
	assert.Contains(t, msg, "retries must be 0")
	assert.Contains(t, msg, `activity "d" has no taskType`)
	assert.Contains(t, msg, `"generate-resolution" is not registered`)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadRegistry(path)
	assert.Error(t, err)
}
