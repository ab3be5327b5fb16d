package consult

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "  ", "")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewGeminiGeneratorModel(t *testing.T) {
	gen, err := NewGeminiGenerator(context.Background(), "test-key", "")
	require.NoError(t, err)
	require.Equal(t, DefaultModel, gen.Model())

	gen, err = NewGeminiGenerator(context.Background(), "test-key", "gemini-2.5-pro")
	require.NoError(t, err)
	require.Equal(t, "gemini-2.5-pro", gen.Model())
}
