// internal/workers/coaching/create-execution-plan/config.go
package createexecutionplan

import "time"

// DefaultAvailableHours applies when the caller states no weekly budget.
const DefaultAvailableHours = 5.0

type Config struct {
	DefaultAvailableHours float64
	Timeout               time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultAvailableHours: DefaultAvailableHours,
		Timeout:               120 * time.Second,
	}
}
