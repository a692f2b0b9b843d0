// internal/workers/coaching/coaching-response/handler.go
package coachingresponse

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
)

const (
	TaskType  = "generate-coaching-response"
	Operation = "generate_coaching_response"
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
	if err := camunda.DecodeVariables(job, validation.CoachJobSchema, &input); err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	response, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	camunda.CompleteJob(client, job, TaskType, &Output{CoachingResponse: response}, h.logger)
}

// Execute answers a check-in question. The completion is returned verbatim.
func (h *Handler) Execute(ctx context.Context, input *Input) (string, error) {
	h.logger.Info("Generating coaching response", map[string]interface{}{
		"query": logger.Truncate(input.Query, 50),
	})

	response, err := h.client.Generate(ctx, h.buildPrompt(input))
	if err != nil {
		err = apperrors.WithStage(err, Operation)
		h.logger.Error("Coaching generation failed", map[string]interface{}{
			"stage":     Operation,
			"errorCode": apperrors.CodeOf(err),
			"query":     logger.Truncate(input.Query, 50),
			"error":     err.Error(),
		})
		return "", err
	}

	h.logger.Info("Coaching response generated successfully", map[string]interface{}{
		"length": len(response),
	})
	return response, nil
}

func (h *Handler) buildPrompt(input *Input) string {
	var parts []string

	gc := input.GoalContext
	progress := "No progress notes yet"
	if len(input.RecentProgress) > 0 {
		progress = strings.Join(input.RecentProgress, "\n")
	}

	parts = append(parts, "You are an empathetic and knowledgeable AI resolution coach.")
	parts = append(parts, fmt.Sprintf("\nUser's goal: %s", extract.Text(gc, ContextGoal, "")))
	parts = append(parts, fmt.Sprintf("Timeline: %s", extract.Text(gc, ContextTimeline, "")))
	parts = append(parts, fmt.Sprintf("Current week: %s", extract.Text(gc, ContextCurrentWeek, "")))
	parts = append(parts, fmt.Sprintf("Challenges faced: %s", extract.Text(gc, ContextChallenges, "")))

	parts = append(parts, "\nRecent progress:")
	parts = append(parts, progress)

	parts = append(parts, "\nUser's current question/concern:")
	parts = append(parts, input.Query)

	parts = append(parts, "\nProvide coaching that:")
	parts = append(parts, "1. Acknowledges their progress and challenges")
	parts = append(parts, "2. Provides specific, actionable advice")
	parts = append(parts, "3. Offers motivation and encouragement")
	parts = append(parts, "4. Suggests adaptations if needed")
	parts = append(parts, "5. Reminds them of their 'why'")

	parts = append(parts, "\nBe warm, professional, and data-informed. Keep response to 2-3 paragraphs.")

	return strings.Join(parts, "\n")
}
