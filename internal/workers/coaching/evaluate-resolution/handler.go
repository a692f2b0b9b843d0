// internal/workers/coaching/evaluate-resolution/handler.go
package evaluateresolution

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
	TaskType  = "evaluate-resolution"
	Operation = "evaluate_resolution_quality"
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
	if err := camunda.DecodeVariables(job, validation.ResolutionInputSchema, &input); err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	evaluation, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	camunda.CompleteJob(client, job, TaskType, &Output{Evaluation: evaluation}, h.logger)
}

// Execute scores a resolution on the rubric. The model's object is returned
// as-is: no score is clamped and no key is required.
func (h *Handler) Execute(ctx context.Context, input *Input) (models.QualityEvaluation, error) {
	if input.Resolution == nil {
		return nil, apperrors.WithStage(apperrors.NewInvalidInputError("resolution is required"), Operation)
	}

	h.logger.Info("Evaluating resolution", map[string]interface{}{
		"title": logger.Truncate(input.Resolution.Title, 50),
	})

	evaluation, err := h.execute(ctx, input.Resolution)
	if err != nil {
		err = apperrors.WithStage(err, Operation)
		h.logger.Error("Evaluation failed", map[string]interface{}{
			"stage":     Operation,
			"errorCode": apperrors.CodeOf(err),
			"title":     logger.Truncate(input.Resolution.Title, 50),
			"error":     err.Error(),
		})
		return nil, err
	}

	overall, _ := evaluation.OverallScore()
	h.logger.Info(fmt.Sprintf("Resolution quality: %g/10", overall), map[string]interface{}{
		"overallScore": overall,
	})
	return evaluation, nil
}

func (h *Handler) execute(ctx context.Context, resolution *models.GeneratedResolution) (models.QualityEvaluation, error) {
	text, err := h.client.Generate(ctx, h.buildPrompt(resolution))
	if err != nil {
		return nil, err
	}

	data, err := extract.JSONObject(text)
	if err != nil {
		return nil, err
	}
	return models.QualityEvaluation(data), nil
}

func (h *Handler) buildPrompt(resolution *models.GeneratedResolution) string {
	var parts []string

	parts = append(parts, "You are an expert at evaluating the quality of resolution frameworks.")
	parts = append(parts, fmt.Sprintf("\nResolution: %s", resolution.Title))
	parts = append(parts, fmt.Sprintf("Description: %s", resolution.Description))
	parts = append(parts, fmt.Sprintf("SMART Goal: %s", resolution.SmartGoal))
	parts = append(parts, fmt.Sprintf("Metrics: %s", strings.Join(resolution.KeyMetrics, ", ")))
	parts = append(parts, fmt.Sprintf("Timeline: %s", resolution.Timeline))

	parts = append(parts, "\nEvaluate on these 0-10 scales:")
	parts = append(parts, "- Clarity: How clear and well-defined is the goal?")
	parts = append(parts, "- Specificity: How specific and detailed?")
	parts = append(parts, "- Measurability: How measurable is progress?")
	parts = append(parts, "- Feasibility: How realistic is the timeline?")
	parts = append(parts, "- Motivation: How motivating is the approach?")

	parts = append(parts, "\nReturn JSON:")
	parts = append(parts, `{
  "clarity": number,
  "specificity": number,
  "measurability": number,
  "feasibility": number,
  "motivation": number,
  "overall_score": number,
  "strengths": ["string"],
  "improvements": ["string"],
  "reasoning": "string"
}`)

	return strings.Join(parts, "\n")
}
