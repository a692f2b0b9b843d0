// internal/models/goal.go
package models

// PriorityLevel ranks how urgent a clarified goal is.
type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "high"
	PriorityMedium PriorityLevel = "medium"
	PriorityLow    PriorityLevel = "low"
)

// SMART criteria keys requested from the model.
const (
	SMARTSpecific   = "specific"
	SMARTMeasurable = "measurable"
	SMARTAchievable = "achievable"
	SMARTRelevant   = "relevant"
	SMARTTimeBound  = "time_bound"
)

// GoalPreprocessingResult is the clarified form of a raw user goal.
type GoalPreprocessingResult struct {
	OriginalGoal      string                 `json:"original_goal"`
	ClarifiedGoal     string                 `json:"clarified_goal"`
	SmartCriteria     map[string]string      `json:"smart_criteria"`
	Context           map[string]interface{} `json:"context"`
	ExtractedTimeline string                 `json:"extracted_timeline"`
	PriorityLevel     PriorityLevel          `json:"priority_level"`
	SuccessMetrics    []string               `json:"success_metrics"`
}

// GeneratedResolution is a resolution built from a clarified goal.
type GeneratedResolution struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Rationale         string   `json:"rationale"`
	SmartGoal         string   `json:"smart_goal"`
	KeyMetrics        []string `json:"key_metrics"`
	Timeline          string   `json:"timeline"`
	Challenges        []string `json:"challenges"`
	SuccessStrategies []string `json:"success_strategies"`
}
