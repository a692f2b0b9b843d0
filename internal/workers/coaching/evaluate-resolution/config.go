// internal/workers/coaching/evaluate-resolution/config.go
package evaluateresolution

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 120 * time.Second,
	}
}
