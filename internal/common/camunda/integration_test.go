package camunda_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rein-coach/internal/common/camunda"
	"rein-coach/internal/common/config"
	"rein-coach/internal/common/llm"
	"rein-coach/internal/common/logger"
	preprocessgoal "rein-coach/internal/workers/coaching/preprocess-goal"
)

// goalProcess is a one-task process that runs the preprocess-goal worker.
const goalProcess = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"
  xmlns:zeebe="http://camunda.org/schema/zeebe/1.0"
  id="coach-it" targetNamespace="http://bpmn.io/schema/bpmn">
  <bpmn:process id="coach-preprocess-it" isExecutable="true">
    <bpmn:startEvent id="start"><bpmn:outgoing>f1</bpmn:outgoing></bpmn:startEvent>
    <bpmn:serviceTask id="preprocess" name="Preprocess goal">
      <bpmn:extensionElements><zeebe:taskDefinition type="preprocess-goal" /></bpmn:extensionElements>
      <bpmn:incoming>f1</bpmn:incoming><bpmn:outgoing>f2</bpmn:outgoing>
    </bpmn:serviceTask>
    <bpmn:endEvent id="end"><bpmn:incoming>f2</bpmn:incoming></bpmn:endEvent>
    <bpmn:sequenceFlow id="f1" sourceRef="start" targetRef="preprocess" />
    <bpmn:sequenceFlow id="f2" sourceRef="preprocess" targetRef="end" />
  </bpmn:process>
</bpmn:definitions>`

// TestPreprocessWorker_AgainstBroker needs a running Zeebe gateway, e.g.
// ZEEBE_IT_ADDRESS=localhost:26500 go test ./internal/common/camunda/...
func TestPreprocessWorker_AgainstBroker(t *testing.T) {
	address := os.Getenv("ZEEBE_IT_ADDRESS")
	if address == "" {
		t.Skip("ZEEBE_IT_ADDRESS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := camunda.NewClient(ctx, &camunda.ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
	})
	require.NoError(t, err)
	defer client.Close()

	zeebe := client.GetClient()
	_, err = zeebe.NewDeployResourceCommand().AddResource([]byte(goalProcess), "coach-preprocess-it.bpmn").Send(ctx)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return `{"clarified_goal":"Run a 5K race by March 31","priority_level":"high"}`, nil
	})
	handler := preprocessgoal.NewHandler(preprocessgoal.LoadConfig(), gen, log)

	w := camunda.StartWorker(zeebe, preprocessgoal.TaskType, config.WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 1,
		Timeout:       30000,
	}, handler.Handle, log)
	require.NotNil(t, w)
	defer func() {
		w.Close()
		w.AwaitClose()
	}()

	cmd, err := zeebe.NewCreateInstanceCommand().
		BPMNProcessId("coach-preprocess-it").
		LatestVersion().
		VariablesFromMap(map[string]interface{}{
			"goal":        "I want to run a 5K",
			"userContext": map[string]interface{}{"experience_level": "beginner"},
		})
	require.NoError(t, err)

	result, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err)

	var vars struct {
		PreprocessedGoal struct {
			ClarifiedGoal string `json:"clarified_goal"`
			PriorityLevel string `json:"priority_level"`
		} `json:"preprocessedGoal"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.GetVariables()), &vars))
	assert.Equal(t, "Run a 5K race by March 31", vars.PreprocessedGoal.ClarifiedGoal)
	assert.Equal(t, "high", vars.PreprocessedGoal.PriorityLevel)
}
