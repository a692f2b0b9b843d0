// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	GenAI         GenAIConfig             `mapstructure:"genai"`
	Pipeline      PipelineConfig          `mapstructure:"pipeline"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Server        ServerConfig            `mapstructure:"server"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// GenAIConfig holds the text-generation provider settings.
type GenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds, 0 disables the per-call deadline
	Temperature float64 `mapstructure:"temperature"`
}

// PipelineConfig holds orchestration defaults.
type PipelineConfig struct {
	DefaultStyle          string  `mapstructure:"default_style"`
	DefaultAvailableHours float64 `mapstructure:"default_available_hours"`
}

type CamundaConfig struct {
	BrokerAddress string `mapstructure:"broker_address"`
	Plaintext     bool   `mapstructure:"plaintext"`
}

// WorkerConfig holds the settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"` // empty disables CORS
}

// ObservabilityConfig controls tracing export. With no OTLP endpoint and
// stdout disabled, spans are recorded but not exported.
type ObservabilityConfig struct {
	ServiceName  string  `mapstructure:"service_name"`
	Tracing      bool    `mapstructure:"tracing"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	Stdout       bool    `mapstructure:"stdout"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GenAITimeout returns the per-call provider deadline.
func (c *Config) GenAITimeout() time.Duration {
	return GetDuration(c.GenAI.Timeout)
}
