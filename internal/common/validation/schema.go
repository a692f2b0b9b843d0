// Package validation checks job variables and HTTP bodies against JSON schemas.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "rein-coach/internal/common/errors"
)

// Schema is a JSON schema document expressed as Go values.
type Schema map[string]interface{}

// ValidationError is one schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult collects every violation found in a document.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate checks data against schema. A schema that cannot be compiled is
// reported as an INTERNAL_ERROR, not as a validation failure.
func Validate(schema Schema, data interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(map[string]interface{}(schema)), gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, apperrors.Errorf("validation error: %v", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out, nil
}

// Check is Validate folded into a single error: nil when data conforms,
// otherwise an INVALID_INPUT error listing the violations.
func Check(schema Schema, data interface{}) error {
	result, err := Validate(schema, data)
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}
	msgs := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return apperrors.NewInvalidInputError(strings.Join(msgs, "; "))
}

var stringList = Schema{"type": "array", "items": Schema{"type": "string"}}

var nonEmptyString = Schema{"type": "string", "minLength": 1, "pattern": `\S`}

// GoalRequestSchema describes a pipeline request: a goal and an optional profile.
var GoalRequestSchema = Schema{
	"type": "object",
	"properties": Schema{
		"goal": nonEmptyString,
		"profile": Schema{
			"type": "object",
			"properties": Schema{
				"id":                       Schema{"type": "string"},
				"experience_level":         Schema{"type": "string"},
				"previous_goals":           stringList,
				"available_hours":          Schema{"type": "number"},
				"available_hours_per_week": Schema{"type": "number"},
				"constraints":              stringList,
			},
		},
	},
	"required": []interface{}{"goal"},
}

// CoachRequestSchema describes a coaching check-in.
var CoachRequestSchema = Schema{
	"type": "object",
	"properties": Schema{
		"query":           nonEmptyString,
		"goal_context":    Schema{"type": "object"},
		"recent_progress": stringList,
	},
	"required": []interface{}{"query"},
}

// PreprocessJobSchema describes the variables of a preprocess-goal job.
var PreprocessJobSchema = Schema{
	"type": "object",
	"properties": Schema{
		"goal":        nonEmptyString,
		"userContext": Schema{"type": "object"},
	},
	"required": []interface{}{"goal"},
}

// ResolutionJobSchema describes the variables of a generate-resolution job.
var ResolutionJobSchema = Schema{
	"type": "object",
	"properties": Schema{
		"preprocessedGoal": Schema{
			"type":     "object",
			"required": []interface{}{"clarified_goal"},
		},
		"style": Schema{"type": "string"},
	},
	"required": []interface{}{"preprocessedGoal"},
}

// ResolutionInputSchema applies to jobs that consume a generated resolution.
var ResolutionInputSchema = Schema{
	"type": "object",
	"properties": Schema{
		"resolution": Schema{"type": "object"},
	},
	"required": []interface{}{"resolution"},
}

// PlanJobSchema describes the variables of a create-execution-plan job.
var PlanJobSchema = Schema{
	"type": "object",
	"properties": Schema{
		"goalId":         Schema{"type": "string"},
		"resolution":     Schema{"type": "object"},
		"availableHours": Schema{"type": "number"},
	},
	"required": []interface{}{"resolution"},
}

// CoachJobSchema describes the variables of a generate-coaching-response job.
var CoachJobSchema = Schema{
	"type": "object",
	"properties": Schema{
		"query":          nonEmptyString,
		"goalContext":    Schema{"type": "object"},
		"recentProgress": stringList,
	},
	"required": []interface{}{"query"},
}
