package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rein-coach/internal/common/errors"
)

func TestNewGeminiClient_MissingKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		client, err := NewGeminiClient(context.Background(), Config{APIKey: key})
		require.Error(t, err)
		assert.Nil(t, client)
		assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
	}
}

func TestNewGeminiClient_DefaultModel(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.Model())

	client, err = NewGeminiClient(context.Background(), Config{APIKey: "test-key", Model: "gemini-1.5-pro", Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", client.Model())
	require.NotNil(t, client.genCfg)
	assert.InDelta(t, 0.3, float64(*client.genCfg.Temperature), 1e-6)
}

func TestGeneratorFunc(t *testing.T) {
	var seen string
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		seen = prompt
		return "ok", nil
	})

	out, err := gen.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "hello", seen)
}
