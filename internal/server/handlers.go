package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/common/validation"
	"rein-coach/internal/models"
)

// Coach is the part of the pipeline the API serves.
type Coach interface {
	Run(ctx context.Context, goal string, profile map[string]interface{}) (*models.PipelineResult, error)
	Coach(ctx context.Context, query string, goalContext map[string]interface{}, recentProgress []string) (string, error)
}

type PipelineRequest struct {
	Goal    string                 `json:"goal"`
	Profile map[string]interface{} `json:"profile"`
}

type CoachRequest struct {
	Query          string                 `json:"query"`
	GoalContext    map[string]interface{} `json:"goal_context"`
	RecentProgress []string               `json:"recent_progress"`
}

type CoachResponse struct {
	Response string `json:"response"`
}

type PipelineHandler struct {
	coach Coach
}

func NewPipelineHandler(coach Coach) *PipelineHandler {
	return &PipelineHandler{coach: coach}
}

// RunPipeline handles POST /api/pipeline.
func (h *PipelineHandler) RunPipeline(c *gin.Context) {
	var req PipelineRequest
	if err := bindValidated(c, validation.GoalRequestSchema, &req); err != nil {
		RespondError(c, err)
		return
	}

	result, err := h.coach.Run(c.Request.Context(), req.Goal, req.Profile)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

// CoachCheckIn handles POST /api/coach.
func (h *PipelineHandler) CoachCheckIn(c *gin.Context) {
	var req CoachRequest
	if err := bindValidated(c, validation.CoachRequestSchema, &req); err != nil {
		RespondError(c, err)
		return
	}

	text, err := h.coach.Coach(c.Request.Context(), req.Query, req.GoalContext, req.RecentProgress)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, CoachResponse{Response: text})
}

// bindValidated checks the raw body against schema before decoding it into out.
func bindValidated(c *gin.Context, schema validation.Schema, out interface{}) error {
	body, err := c.GetRawData()
	if err != nil {
		return apperrors.NewInvalidInputError("read body: " + err.Error())
	}

	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return apperrors.NewInvalidInputError("body is not valid JSON: " + err.Error())
	}
	if err := validation.Check(schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	return nil
}

type HealthHandler struct {
	ready func(ctx context.Context) error
}

// NewHealthHandler uses ready for /ready; nil means always ready.
func NewHealthHandler(ready func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ready: ready}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *HealthHandler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "NOT READY: "+err.Error())
			return
		}
	}
	c.String(http.StatusOK, "READY")
}
