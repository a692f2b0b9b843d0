// internal/workers/coaching/evaluate-resolution/models.go
package evaluateresolution

import "rein-coach/internal/models"

type Input struct {
	Resolution *models.GeneratedResolution `json:"resolution"`
}

type Output struct {
	Evaluation models.QualityEvaluation `json:"evaluation"`
}
