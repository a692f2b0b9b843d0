// internal/workers/coaching/generate-resolution/models.go
package generateresolution

import "rein-coach/internal/models"

const (
	StyleAggressive   = "aggressive"
	StyleBalanced     = "balanced"
	StyleConservative = "conservative"
)

// toneInstructions holds the extra tone line sent for each recognized style.
var toneInstructions = map[string]string{
	StyleAggressive:   "Tone: bold and ambitious. Stretch the targets and expect a demanding weekly commitment.",
	StyleBalanced:     "Tone: realistic and encouraging. Targets should be achievable with steady effort.",
	StyleConservative: "Tone: gentle and steady. Favor small, low-risk steps and generous recovery time.",
}

type Input struct {
	PreprocessedGoal *models.GoalPreprocessingResult `json:"preprocessedGoal"`
	Style            string                          `json:"style"`
}

type Output struct {
	Resolution *models.GeneratedResolution `json:"resolution"`
}
