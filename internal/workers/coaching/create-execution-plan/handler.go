// internal/workers/coaching/create-execution-plan/handler.go
package createexecutionplan

import (
	"context"
	"fmt"
	"strconv"
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
	TaskType  = "create-execution-plan"
	Operation = "create_execution_plan"
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
	if err := camunda.DecodeVariables(job, validation.PlanJobSchema, &input); err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}
	if input.GoalID == "" {
		input.GoalID = strconv.FormatInt(job.ProcessInstanceKey, 10)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	plan, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(client, job, TaskType, err, h.logger)
		return
	}

	camunda.CompleteJob(client, job, TaskType, &Output{Plan: plan}, h.logger)
}

// Execute builds a week-by-week plan. Phases are flattened into one ordered
// list of weeks; KeyMilestones is always empty (see GeneratedPlan.WeekMilestones).
func (h *Handler) Execute(ctx context.Context, input *Input) (*models.GeneratedPlan, error) {
	if input.Resolution == nil {
		return nil, apperrors.WithStage(apperrors.NewInvalidInputError("resolution is required"), Operation)
	}

	hours := h.config.DefaultAvailableHours
	if input.AvailableHours != nil {
		hours = *input.AvailableHours
	}

	h.logger.Info("Creating execution plan", map[string]interface{}{
		"goalId":         input.GoalID,
		"availableHours": hours,
	})

	plan, err := h.execute(ctx, input.GoalID, input.Resolution, hours)
	if err != nil {
		err = apperrors.WithStage(err, Operation)
		h.logger.Error("Plan creation failed", map[string]interface{}{
			"stage":     Operation,
			"errorCode": apperrors.CodeOf(err),
			"goalId":    input.GoalID,
			"title":     logger.Truncate(input.Resolution.Title, 50),
			"error":     err.Error(),
		})
		return nil, err
	}

	h.logger.Info("Execution plan created", map[string]interface{}{
		"totalWeeks": plan.TotalWeeks,
		"weekCount":  len(plan.Phases),
	})
	return plan, nil
}

func (h *Handler) execute(ctx context.Context, goalID string, resolution *models.GeneratedResolution, hours float64) (*models.GeneratedPlan, error) {
	text, err := h.client.Generate(ctx, h.buildPrompt(resolution, hours))
	if err != nil {
		return nil, err
	}

	data, err := extract.JSONObject(text)
	if err != nil {
		return nil, err
	}

	return &models.GeneratedPlan{
		GoalID:           goalID,
		Phases:           flattenPhases(data),
		TotalWeeks:       extract.Int(data, "total_weeks", 0),
		KeyMilestones:    []map[string]interface{}{},
		Resources:        extract.StringSlice(data, "resources"),
		Contingencies:    extract.StringSlice(data, "contingencies"),
		EvaluationPoints: extract.IntSlice(data, "evaluation_weeks"),
	}, nil
}

// flattenPhases concatenates every phase's weeks in order, dropping the phase names.
func flattenPhases(data map[string]interface{}) []models.WeekEntry {
	weeks := []models.WeekEntry{}
	for _, phase := range extract.MapSlice(data, "phases") {
		for _, w := range extract.MapSlice(phase, "weeks") {
			weeks = append(weeks, models.WeekEntry{
				Week:        extract.Int(w, "week", 0),
				Focus:       extract.String(w, "focus", ""),
				Tasks:       extract.StringSlice(w, "tasks"),
				HoursNeeded: extract.Float(w, "hours_needed", 0),
				Milestones:  extract.StringSlice(w, "milestones"),
			})
		}
	}
	return weeks
}

func (h *Handler) buildPrompt(resolution *models.GeneratedResolution, hours float64) string {
	var parts []string

	parts = append(parts, "You are an expert project planner creating detailed execution plans.")
	parts = append(parts, fmt.Sprintf("\nResolution: %s", resolution.Title))
	parts = append(parts, fmt.Sprintf("Timeline: %s", resolution.Timeline))
	parts = append(parts, fmt.Sprintf("Available hours/week: %s", strconv.FormatFloat(hours, 'g', -1, 64)))
	parts = append(parts, fmt.Sprintf("Metrics: %s", strings.Join(resolution.KeyMetrics, ", ")))
	parts = append(parts, fmt.Sprintf("Challenges: %s", strings.Join(resolution.Challenges, ", ")))

	parts = append(parts, "\nCreate a detailed week-by-week plan including:")
	parts = append(parts, "1. Breakdown into phases (e.g., Foundation, Building, Optimization)")
	parts = append(parts, "2. Weekly tasks for each phase")
	parts = append(parts, "3. Milestones and check-in points")
	parts = append(parts, "4. Resource requirements")
	parts = append(parts, "5. Contingency plans")

	parts = append(parts, "\nEnsure:")
	parts = append(parts, "- Tasks fit within available hours")
	parts = append(parts, "- Progressive difficulty (easy to hard)")
	parts = append(parts, "- Regular check-in points (typically every 2-4 weeks)")
	parts = append(parts, "- Quick wins in early weeks for motivation")

	parts = append(parts, "\nReturn as JSON:")
	parts = append(parts, `{
  "phases": [
    {
      "name": "string",
      "weeks": [
        {
          "week": number,
          "focus": "string",
          "tasks": ["string"],
          "hours_needed": number,
          "milestones": ["string"]
        }
      ]
    }
  ],
  "total_weeks": number,
  "evaluation_weeks": [number],
  "resources": ["string"],
  "contingencies": ["string"]
}`)

	return strings.Join(parts, "\n")
}
