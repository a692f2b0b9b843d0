// internal/workers/coaching/create-execution-plan/models.go
package createexecutionplan

import "rein-coach/internal/models"

type Input struct {
	GoalID     string                      `json:"goalId"`
	Resolution *models.GeneratedResolution `json:"resolution"`
	// AvailableHours is hours per week; nil means the configured default.
	AvailableHours *float64 `json:"availableHours,omitempty"`
}

type Output struct {
	Plan *models.GeneratedPlan `json:"plan"`
}
