// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Validate checks that every task type in required is registered exactly
// once, that timeouts parse and that no activity asks for retries. Coaching
// jobs are failed with zero retries, so a registry promising more is wrong.
func (r *ActivityRegistry) Validate(required []string) error {
	var errs []error

	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %q has no taskType", a.ID))
			continue
		}
		if seen[a.TaskType] {
			errs = append(errs, fmt.Errorf("taskType %q registered more than once", a.TaskType))
		}
		seen[a.TaskType] = true

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("activity %q: invalid timeout %q", a.ID, a.Timeout))
			}
		}
		if a.Retries != 0 {
			errs = append(errs, fmt.Errorf("activity %q: retries must be 0, got %d", a.ID, a.Retries))
		}
	}

	for _, taskType := range required {
		if !seen[taskType] {
			errs = append(errs, fmt.Errorf("taskType %q is not registered", taskType))
		}
	}
	return errors.Join(errs...)
}
