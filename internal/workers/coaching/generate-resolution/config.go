// internal/workers/coaching/generate-resolution/config.go
package generateresolution

import "time"

type Config struct {
	DefaultStyle string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultStyle: StyleBalanced,
		Timeout:      120 * time.Second,
	}
}
