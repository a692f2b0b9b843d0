// internal/common/llm/client.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "rein-coach/internal/common/errors"
)

const DefaultModel = "gemini-2.0-flash"

// TextGenerator sends a complete prompt and returns the raw completion text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to TextGenerator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Config holds the provider settings for a GeminiClient.
type Config struct {
	APIKey      string
	Model       string
	Timeout     time.Duration // per call; zero leaves the caller's deadline in charge
	Temperature float64       // zero keeps the model default
}

var errEmptyCompletion = errors.New("model returned no text")

// GeminiClient implements TextGenerator for the Gemini API.
// It holds no per-call state and is safe for concurrent use.
type GeminiClient struct {
	models  *genai.Models
	model   string
	timeout time.Duration
	genCfg  *genai.GenerateContentConfig
}

// NewGeminiClient creates a client. An empty API key is a ConfigurationError.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperrors.NewConfigurationError("GEMINI_API_KEY environment variable not set")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("failed to create GenAI client: %v", err))
	}

	var genCfg *genai.GenerateContentConfig
	if cfg.Temperature > 0 {
		genCfg = &genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(cfg.Temperature)),
		}
	}

	return &GeminiClient{
		models:  client.Models,
		model:   model,
		timeout: cfg.Timeout,
		genCfg:  genCfg,
	}, nil
}

// Generate sends prompt as a single user turn. Provider failures come back
// as TransportError wrapping the provider error.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.genCfg)
	if err != nil {
		return "", apperrors.NewTransportError(fmt.Errorf("GenAI generate failed: %w", err))
	}

	text := resp.Text()
	if text == "" {
		return "", apperrors.NewTransportError(errEmptyCompletion)
	}
	return text, nil
}

// Model returns the model name used for completions.
func (c *GeminiClient) Model() string {
	return c.model
}
