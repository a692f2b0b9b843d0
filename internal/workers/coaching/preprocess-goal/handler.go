// internal/workers/coaching/preprocess-goal/handler.go
package preprocessgoal

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rein-coach/internal/common/camunda"
	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/common/extract"
	"rein-coach/internal/common/llm"
	"rein-coach/internal/common/logger"
	"rein-coach/internal/common/validation"
	"rein-coach/internal/models"
)

const (
	TaskType  = "preprocess-goal"
	Operation = "preprocess_goal"
)

type Handler struct {
	config *Config
	client llm.TextGenerator
	logger logger.Logger
}

func NewHandler(config *Config, client llm.TextGenerator, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(job, validation.PreprocessJobSchema, &input); err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	result, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	camunda.CompleteJob(client, job, TaskType, &Output{PreprocessedGoal: result}, h.logger)
}

// Execute clarifies a raw goal into SMART form. Fields the model omits fall
// back to the original goal, medium priority, or empty values.
func (h *Handler) Execute(ctx context.Context, input *Input) (*models.GoalPreprocessingResult, error) {
	h.logger.Info("Preprocessing goal", map[string]interface{}{
		"goal": logger.Truncate(input.Goal, 50),
	})

	result, err := h.execute(ctx, input)
	if err != nil {
		err = apperrors.WithStage(err, Operation)
		h.logger.Error("Goal preprocessing failed", map[string]interface{}{
			"stage":     Operation,
			"errorCode": apperrors.CodeOf(err),
			"goal":      logger.Truncate(input.Goal, 50),
			"error":     err.Error(),
		})
		return nil, err
	}

	h.logger.Info("Goal preprocessing completed", map[string]interface{}{
		"clarifiedGoal": logger.Truncate(result.ClarifiedGoal, 50),
		"priority":      result.PriorityLevel,
	})
	return result, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*models.GoalPreprocessingResult, error) {
	text, err := h.client.Generate(ctx, h.buildPrompt(input))
	if err != nil {
		return nil, err
	}

	data, err := extract.JSONObject(text)
	if err != nil {
		return nil, err
	}

	userContext := make(map[string]interface{}, len(input.UserContext))
	for k, v := range input.UserContext {
		userContext[k] = v
	}

	return &models.GoalPreprocessingResult{
		OriginalGoal:      input.Goal,
		ClarifiedGoal:     extract.String(data, "clarified_goal", input.Goal),
		SmartCriteria:     extract.StringMap(data, "smart_criteria"),
		Context:           userContext,
		ExtractedTimeline: extract.String(data, "timeline", ""),
		PriorityLevel:     models.PriorityLevel(extract.String(data, "priority_level", string(models.PriorityMedium))),
		SuccessMetrics:    extract.StringSlice(data, "success_metrics"),
	}, nil
}

func (h *Handler) buildPrompt(input *Input) string {
	var parts []string

	parts = append(parts, "You are an expert at clarifying and structuring life goals.")
	parts = append(parts, fmt.Sprintf("\nUser's raw goal: %s", input.Goal))

	parts = append(parts, "\nUser context:")
	parts = append(parts, fmt.Sprintf("- Experience level: %s", extract.Text(input.UserContext, ContextExperienceLevel, "unknown")))
	parts = append(parts, fmt.Sprintf("- Previous goals: %s", extract.Text(input.UserContext, ContextPreviousGoals, "none")))
	parts = append(parts, fmt.Sprintf("- Available time: %s hours/week", extract.Text(input.UserContext, ContextAvailableHours, "unknown")))
	parts = append(parts, fmt.Sprintf("- Constraints: %s", extract.Text(input.UserContext, ContextConstraints, "none")))

	parts = append(parts, "\nTask: Clarify this goal and extract:")
	parts = append(parts, "1. Clarified goal statement (clear and specific)")
	parts = append(parts, "2. SMART criteria (Specific, Measurable, Achievable, Relevant, Time-bound)")
	parts = append(parts, "3. Key success metrics (2-3 quantifiable measures)")
	parts = append(parts, "4. Timeline (estimated duration)")
	parts = append(parts, "5. Priority level (high/medium/low)")
	parts = append(parts, "6. Potential challenges")

	parts = append(parts, "\nReturn response as JSON:")
	parts = append(parts, `{
  "clarified_goal": "string",
  "smart_criteria": {
    "specific": "string",
    "measurable": "string",
    "achievable": "string",
    "relevant": "string",
    "time_bound": "string"
  },
  "success_metrics": ["string"],
  "timeline": "string",
  "priority_level": "string",
  "challenges": ["string"]
}`)

	return strings.Join(parts, "\n")
}
