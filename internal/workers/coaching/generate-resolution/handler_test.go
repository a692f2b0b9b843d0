// internal/workers/coaching/generate-resolution/handler_test.go
package generateresolution

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/common/llm"
	"rein-coach/internal/common/logger"
	"rein-coach/internal/models"
)

func sampleGoal() *models.GoalPreprocessingResult {
	return &models.GoalPreprocessingResult{
		OriginalGoal:      "I want to get fit and run a 5K by the end of Q1",
		ClarifiedGoal:     "Run a 5K race without stopping by March 31",
		SmartCriteria:     map[string]string{models.SMARTSpecific: "Run 5 km"},
		ExtractedTimeline: "12 weeks",
		PriorityLevel:     models.PriorityHigh,
		SuccessMetrics:    []string{"5K under 40 minutes", "3 runs per week"},
	}
}

// recorder replies with reply and keeps every prompt it receives.
func recorder(reply string) (llm.TextGenerator, *[]string) {
	var prompts []string
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return reply, nil
	})
	return gen, &prompts
}

func TestExecute_CompleteResponse(t *testing.T) {
	gen, prompts := recorder("```json\n" + `{
  "title": "Couch to 5K by Spring",
  "description": "A progressive running programme.",
  "rationale": "Gradual load avoids injury.",
  "smart_goal": "Run 5K continuously by March 31",
  "key_metrics": ["weekly distance", "longest run"],
  "timeline": "12 weeks in three phases",
  "challenges": ["motivation dips"],
  "success_strategies": ["run with a friend", "log every session"]
}` + "\n```")
	h := NewHandler(LoadConfig(), gen, logger.NewTestLogger(t))

	res, err := h.Execute(context.Background(), &Input{PreprocessedGoal: sampleGoal()})
	require.NoError(t, err)

	assert.Equal(t, &models.GeneratedResolution{
		Title:             "Couch to 5K by Spring",
		Description:       "A progressive running programme.",
		Rationale:         "Gradual load avoids injury.",
		SmartGoal:         "Run 5K continuously by March 31",
		KeyMetrics:        []string{"weekly distance", "longest run"},
		Timeline:          "12 weeks in three phases",
		Challenges:        []string{"motivation dips"},
		SuccessStrategies: []string{"run with a friend", "log every session"},
	}, res)

	require.Len(t, *prompts, 1)
	prompt := (*prompts)[0]
	assert.Contains(t, prompt, "Goal: Run a 5K race without stopping by March 31")
	assert.Contains(t, prompt, `SMART criteria: {"specific":"Run 5 km"}`)
	assert.Contains(t, prompt, "Timeline: 12 weeks")
	assert.Contains(t, prompt, "Priority: high")
	assert.Contains(t, prompt, "Success Metrics: 5K under 40 minutes, 3 runs per week")
	assert.Contains(t, prompt, "Generation style: balanced")
}

func TestExecute_MissingFieldsUseDefaults(t *testing.T) {
	gen, _ := recorder(`{"title": "Only a title"}`)
	h := NewHandler(LoadConfig(), gen, logger.NewNoOpLogger())

	res, err := h.Execute(context.Background(), &Input{PreprocessedGoal: sampleGoal()})
	require.NoError(t, err)

	assert.Equal(t, "Only a title", res.Title)
	assert.Equal(t, "", res.Description)
	assert.Equal(t, "", res.Rationale)
	assert.Equal(t, "", res.SmartGoal)
	assert.Equal(t, "", res.Timeline)
	assert.Equal(t, []string{}, res.KeyMetrics)
	assert.Equal(t, []string{}, res.Challenges)
	assert.Equal(t, []string{}, res.SuccessStrategies)
}

func TestExecute_StylesProduceDistinctPrompts(t *testing.T) {
	gen, prompts := recorder(`{"title": "x"}`)
	h := NewHandler(LoadConfig(), gen, logger.NewNoOpLogger())

	for _, style := range []string{StyleAggressive, StyleBalanced, StyleConservative} {
		_, err := h.Execute(context.Background(), &Input{PreprocessedGoal: sampleGoal(), Style: style})
		require.NoError(t, err)
	}

	require.Len(t, *prompts, 3)
	assert.NotEqual(t, (*prompts)[0], (*prompts)[1])
	assert.NotEqual(t, (*prompts)[1], (*prompts)[2])
	assert.NotEqual(t, (*prompts)[0], (*prompts)[2])

	assert.Contains(t, (*prompts)[0], toneInstructions[StyleAggressive])
	assert.Contains(t, (*prompts)[1], toneInstructions[StyleBalanced])
	assert.Contains(t, (*prompts)[2], toneInstructions[StyleConservative])
	assert.NotContains(t, (*prompts)[0], toneInstructions[StyleConservative])
}

func TestExecute_UnknownStylePassedThrough(t *testing.T) {
	gen, prompts := recorder(`{"title": "x"}`)
	h := NewHandler(LoadConfig(), gen, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{PreprocessedGoal: sampleGoal(), Style: "reckless"})
	require.NoError(t, err)

	prompt := (*prompts)[0]
	assert.Contains(t, prompt, "Generation style: reckless")
	for _, tone := range toneInstructions {
		assert.NotContains(t, prompt, tone)
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		err    error
		target error
	}{
		{"no braces", "Here is your resolution: be great", nil, apperrors.ErrExtraction},
		{"invalid json", `{"title": "x",}`, nil, apperrors.ErrParse},
		{"transport", "", apperrors.NewTransportError(errors.New("503")), apperrors.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
				return tt.reply, tt.err
			})
			res, err := NewHandler(LoadConfig(), gen, logger.NewNoOpLogger()).
				Execute(context.Background(), &Input{PreprocessedGoal: sampleGoal()})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.target))
			assert.Equal(t, Operation, apperrors.StageOf(err))
		})
	}
}

func TestExecute_NilGoal(t *testing.T) {
	gen, prompts := recorder(`{}`)
	_, err := NewHandler(LoadConfig(), gen, logger.NewNoOpLogger()).Execute(context.Background(), &Input{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Empty(t, *prompts)
}
