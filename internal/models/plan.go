// internal/models/plan.go
package models

// WeekEntry is one week of an execution plan. The phase it came from is not kept.
type WeekEntry struct {
	Week        int      `json:"week"`
	Focus       string   `json:"focus"`
	Tasks       []string `json:"tasks"`
	HoursNeeded float64  `json:"hours_needed"`
	Milestones  []string `json:"milestones"`
}

// Milestone is a per-week milestone lifted out of a WeekEntry.
type Milestone struct {
	Week        int    `json:"week"`
	Description string `json:"description"`
}

// GeneratedPlan is the week-by-week execution plan for a resolution.
type GeneratedPlan struct {
	GoalID           string                   `json:"goal_id"`
	Phases           []WeekEntry              `json:"phases"`
	TotalWeeks       int                      `json:"total_weeks"`
	KeyMilestones    []map[string]interface{} `json:"key_milestones"`
	Resources        []string                 `json:"resources"`
	Contingencies    []string                 `json:"contingencies"`
	EvaluationPoints []int                    `json:"evaluation_points"`
}

// WeekMilestones scans the flattened weeks for their milestones, in week order.
// KeyMilestones is left empty by the planner; this is the way to read them.
func (p *GeneratedPlan) WeekMilestones() []Milestone {
	out := []Milestone{}
	for _, w := range p.Phases {
		for _, m := range w.Milestones {
			out = append(out, Milestone{Week: w.Week, Description: m})
		}
	}
	return out
}

// PipelineResult aggregates one end-to-end run.
type PipelineResult struct {
	PreprocessedGoal *GoalPreprocessingResult `json:"preprocessed_goal"`
	Resolution       *GeneratedResolution     `json:"resolution"`
	Evaluation       QualityEvaluation        `json:"evaluation"`
	Plan             *GeneratedPlan           `json:"plan"`
	Timestamp        string                   `json:"timestamp"`
}
