// internal/models/evaluation.go
package models

// Rubric dimensions scored by the quality evaluator.
const (
	DimensionClarity       = "clarity"
	DimensionSpecificity   = "specificity"
	DimensionMeasurability = "measurability"
	DimensionFeasibility   = "feasibility"
	DimensionMotivation    = "motivation"
)

// Dimensions lists the rubric in prompt order.
var Dimensions = []string{
	DimensionClarity,
	DimensionSpecificity,
	DimensionMeasurability,
	DimensionFeasibility,
	DimensionMotivation,
}

// QualityEvaluation is the evaluator output exactly as the model returned it.
// Scores are advisory: nothing is clamped to 0-10 or type-checked.
type QualityEvaluation map[string]interface{}

// Score returns a rubric sub-score when it is present and numeric.
func (q QualityEvaluation) Score(dimension string) (float64, bool) {
	f, ok := q[dimension].(float64)
	return f, ok
}

// OverallScore returns overall_score when it is present and numeric.
func (q QualityEvaluation) OverallScore() (float64, bool) {
	return q.Score("overall_score")
}

func (q QualityEvaluation) Strengths() []string {
	return stringItems(q["strengths"])
}

func (q QualityEvaluation) Improvements() []string {
	return stringItems(q["improvements"])
}

func (q QualityEvaluation) Reasoning() string {
	s, _ := q["reasoning"].(string)
	return s
}

func stringItems(v interface{}) []string {
	out := []string{}
	items, _ := v.([]interface{})
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
