// internal/workers/coaching/coaching-response/models.go
package coachingresponse

// Recognized goal-context keys.
const (
	ContextGoal        = "goal"
	ContextTimeline    = "timeline"
	ContextCurrentWeek = "current_week"
	ContextChallenges  = "challenges"
)

type Input struct {
	Query          string                 `json:"query"`
	GoalContext    map[string]interface{} `json:"goalContext"`
	RecentProgress []string               `json:"recentProgress"`
}

type Output struct {
	CoachingResponse string `json:"coachingResponse"`
}
