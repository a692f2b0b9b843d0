// internal/workers/coaching/preprocess-goal/models.go
package preprocessgoal

import "rein-coach/internal/models"

// Recognized user-context keys.
const (
	ContextExperienceLevel = "experience_level"
	ContextPreviousGoals   = "previous_goals"
	ContextAvailableHours  = "available_hours_per_week"
	ContextConstraints     = "constraints"
)

type Input struct {
	Goal        string                 `json:"goal"`
	UserContext map[string]interface{} `json:"userContext"`
}

type Output struct {
	PreprocessedGoal *models.GoalPreprocessingResult `json:"preprocessedGoal"`
}
