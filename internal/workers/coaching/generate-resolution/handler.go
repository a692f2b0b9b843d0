// internal/workers/coaching/generate-resolution/handler.go
package generateresolution

import (
	"context"
	"encoding/json"
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
	TaskType  = "generate-resolution"
	Operation = "generate_resolution"
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
	if err := camunda.DecodeVariables(job, validation.ResolutionJobSchema, &input); err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	resolution, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	camunda.CompleteJob(client, job, TaskType, &Output{Resolution: resolution}, h.logger)
}

// Execute expands a preprocessed goal into a resolution. An empty style uses
// the configured default; any other value is sent to the model as given.
func (h *Handler) Execute(ctx context.Context, input *Input) (*models.GeneratedResolution, error) {
	if input.PreprocessedGoal == nil {
		return nil, apperrors.WithStage(apperrors.NewInvalidInputError("preprocessed goal is required"), Operation)
	}

	style := input.Style
	if style == "" {
		style = h.config.DefaultStyle
	}
	if _, ok := toneInstructions[style]; !ok {
		h.logger.Warn("unrecognized generation style, passing it through", map[string]interface{}{
			"style": style,
		})
	}

	h.logger.Info("Generating resolution", map[string]interface{}{
		"style": style,
		"goal":  logger.Truncate(input.PreprocessedGoal.ClarifiedGoal, 50),
	})

	resolution, err := h.execute(ctx, input.PreprocessedGoal, style)
	if err != nil {
		err = apperrors.WithStage(err, Operation)
		h.logger.Error("Resolution generation failed", map[string]interface{}{
			"stage":     Operation,
			"errorCode": apperrors.CodeOf(err),
			"goal":      logger.Truncate(input.PreprocessedGoal.ClarifiedGoal, 50),
			"error":     err.Error(),
		})
		return nil, err
	}

	h.logger.Info("Resolution generated", map[string]interface{}{
		"title": resolution.Title,
	})
	return resolution, nil
}

func (h *Handler) execute(ctx context.Context, goal *models.GoalPreprocessingResult, style string) (*models.GeneratedResolution, error) {
	text, err := h.client.Generate(ctx, h.buildPrompt(goal, style))
	if err != nil {
		return nil, err
	}

	data, err := extract.JSONObject(text)
	if err != nil {
		return nil, err
	}

	return &models.GeneratedResolution{
		Title:             extract.String(data, "title", ""),
		Description:       extract.String(data, "description", ""),
		Rationale:         extract.String(data, "rationale", ""),
		SmartGoal:         extract.String(data, "smart_goal", ""),
		KeyMetrics:        extract.StringSlice(data, "key_metrics"),
		Timeline:          extract.String(data, "timeline", ""),
		Challenges:        extract.StringSlice(data, "challenges"),
		SuccessStrategies: extract.StringSlice(data, "success_strategies"),
	}, nil
}

func (h *Handler) buildPrompt(goal *models.GoalPreprocessingResult, style string) string {
	var parts []string

	criteria := goal.SmartCriteria
	if criteria == nil {
		criteria = map[string]string{}
	}
	criteriaJSON, _ := json.Marshal(criteria)

	parts = append(parts, "You are an expert life coach creating personalized resolution strategies.")
	parts = append(parts, fmt.Sprintf("\nGoal: %s", goal.ClarifiedGoal))
	parts = append(parts, fmt.Sprintf("SMART criteria: %s", criteriaJSON))
	parts = append(parts, fmt.Sprintf("Timeline: %s", goal.ExtractedTimeline))
	parts = append(parts, fmt.Sprintf("Priority: %s", goal.PriorityLevel))
	parts = append(parts, fmt.Sprintf("Success Metrics: %s", strings.Join(goal.SuccessMetrics, ", ")))

	parts = append(parts, fmt.Sprintf("\nGeneration style: %s", style))
	parts = append(parts, "- aggressive: Push boundaries, high ambition")
	parts = append(parts, "- balanced: Realistic and achievable with effort")
	parts = append(parts, "- conservative: Gradual progress, low risk")
	if tone, ok := toneInstructions[style]; ok {
		parts = append(parts, tone)
	}

	parts = append(parts, "\nCreate a comprehensive resolution plan including:")
	parts = append(parts, "1. Resolution title (catchy but professional)")
	parts = append(parts, "2. Detailed description")
	parts = append(parts, "3. Rationale (why this approach will work)")
	parts = append(parts, "4. SMART goal restatement")
	parts = append(parts, "5. Key measurable metrics")
	parts = append(parts, "6. Expected timeline with phases")
	parts = append(parts, "7. Anticipated challenges")
	parts = append(parts, "8. Success strategies")

	parts = append(parts, "\nReturn as JSON:")
	parts = append(parts, `{
  "title": "string",
  "description": "string",
  "rationale": "string",
  "smart_goal": "string",
  "key_metrics": ["string"],
  "timeline": "string",
  "challenges": ["string"],
  "success_strategies": ["string"]
}`)

	return strings.Join(parts, "\n")
}
