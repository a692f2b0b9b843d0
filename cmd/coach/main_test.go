package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rein-coach/internal/common/logger"
	"rein-coach/internal/models"
	"rein-coach/pkg/registry"
)

func TestWriteResult_Formats(t *testing.T) {
	result := &models.PipelineResult{
		Resolution: &models.GeneratedResolution{Title: "Couch to 5K"},
		Plan:       &models.GeneratedPlan{TotalWeeks: 12},
		Timestamp:  "2026-01-05T10:00:00Z",
	}

	var jsonOut bytes.Buffer
	require.NoError(t, writeResult(&jsonOut, outputJSON, result))
	assert.Contains(t, jsonOut.String(), `"title": "Couch to 5K"`)

	var yamlOut bytes.Buffer
	require.NoError(t, writeResult(&yamlOut, outputYAML, result))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &decoded))
	assert.Equal(t, "2026-01-05T10:00:00Z", decoded["timestamp"])
	assert.Equal(t, 12, decoded["plan"].(map[string]interface{})["total_weeks"])

	assert.Error(t, writeResult(&bytes.Buffer{}, "xml", result))
}

func TestLoadProfile_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("experience_level: intermediate\navailable_hours: 8\nconstraints:\n  - night shifts\n"), 0o600))
	profile, err := loadProfile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "intermediate", profile["experience_level"])
	assert.Equal(t, 8, profile["available_hours"])
	assert.Equal(t, []interface{}{"night shifts"}, profile["constraints"])

	jsonPath := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"id":"u1","available_hours":2.5}`), 0o600))
	profile, err = loadProfile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "u1", profile["id"])
	assert.Equal(t, 2.5, profile["available_hours"])

	_, err = loadProfile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildProfile_FlagsOverrideDemo(t *testing.T) {
	require.NoError(t, runCmd.Flags().Set("hours", "12"))
	require.NoError(t, runCmd.Flags().Set("constraint", "travel"))

	profile, err := buildProfile(runCmd)
	require.NoError(t, err)

	assert.Equal(t, 12.0, profile["available_hours"])
	assert.Equal(t, []interface{}{"travel"}, profile["constraints"])
	assert.Equal(t, "beginner", profile["experience_level"], "unset flags keep the demo value")
	assert.Equal(t, "user_123", profile["id"])
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "connect")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("down")
	}, 2, time.Millisecond, log, "connect")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "connect failed after 2 attempts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = retryWithBackoff(ctx, func() error { return errors.New("down") }, 5, time.Hour, log, "connect")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoachingTaskTypes_AreRegistered(t *testing.T) {
	reg, err := registry.LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.NoError(t, reg.Validate(coachingTaskTypes))
}
