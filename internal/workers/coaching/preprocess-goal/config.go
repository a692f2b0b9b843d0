// internal/workers/coaching/preprocess-goal/config.go
package preprocessgoal

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 120 * time.Second,
	}
}
