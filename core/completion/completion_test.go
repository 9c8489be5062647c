package completion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicescreen/interviewd/core/completion"
)

func TestResolveModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		alias string
		want  string
	}{
		{completion.ModelGPT35, "gpt-3.5-turbo"},
		{completion.ModelGPT4o, "gpt-4o"},
		{completion.ModelGeminiFlash, "gemini-2.0-flash"},
		{completion.ModelGeminiPro, "gemini-1.5-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			t.Parallel()
			name, err := completion.ResolveModel(tt.alias)
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}

	t.Run("unknown alias is a configuration error", func(t *testing.T) {
		t.Parallel()
		_, err := completion.ResolveModel("claude-sonnet")
		assert.ErrorIs(t, err, completion.ErrUnknownModel)
	})
}

func TestNewOpenAI(t *testing.T) {
	t.Parallel()

	_, err := completion.NewOpenAI("")
	assert.ErrorIs(t, err, completion.ErrInvalidAPIKey)

	client, err := completion.NewOpenAI("sk-test", completion.WithOpenAITemperature(0.2))
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewGoogle(t *testing.T) {
	t.Parallel()

	_, err := completion.NewGoogle(context.Background(), "")
	assert.ErrorIs(t, err, completion.ErrInvalidAPIKey)
}

func TestRouter(t *testing.T) {
	t.Parallel()

	t.Run("unconfigured provider rejects its aliases", func(t *testing.T) {
		t.Parallel()

		openaiClient, err := completion.NewOpenAI("sk-test")
		require.NoError(t, err)

		router := completion.NewRouter(openaiClient, nil)
		_, err = router.Complete(context.Background(), nil, completion.ModelGeminiFlash)
		assert.ErrorIs(t, err, completion.ErrUnknownModel)
	})

	t.Run("unknown alias", func(t *testing.T) {
		t.Parallel()

		router := completion.NewRouter(nil, nil)
		_, err := router.Complete(context.Background(), nil, "llama3")
		assert.ErrorIs(t, err, completion.ErrUnknownModel)
	})
}
