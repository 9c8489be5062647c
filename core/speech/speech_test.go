package speech_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicescreen/interviewd/core/speech"
)

func TestNewOpenAI(t *testing.T) {
	t.Parallel()

	t.Run("requires api key", func(t *testing.T) {
		t.Parallel()
		_, err := speech.NewOpenAI("")
		assert.ErrorIs(t, err, speech.ErrInvalidAPIKey)
	})

	t.Run("creates client with options", func(t *testing.T) {
		t.Parallel()
		client, err := speech.NewOpenAI("sk-test",
			speech.WithSTTModel("whisper-1"),
			speech.WithTTSModel("tts-1-hd"),
		)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestOpenAIInputValidation(t *testing.T) {
	t.Parallel()

	client, err := speech.NewOpenAI("sk-test")
	require.NoError(t, err)

	t.Run("empty audio rejected before any remote call", func(t *testing.T) {
		t.Parallel()
		_, err := client.Transcribe(context.Background(), nil)
		assert.ErrorIs(t, err, speech.ErrEmptyAudio)
	})

	t.Run("empty text rejected before any remote call", func(t *testing.T) {
		t.Parallel()
		_, err := client.Synthesize(context.Background(), "", "alloy")
		assert.ErrorIs(t, err, speech.ErrEmptyText)
	})
}

func TestRandomVoice(t *testing.T) {
	t.Parallel()

	for range 50 {
		assert.True(t, slices.Contains(speech.Voices, speech.RandomVoice()))
	}
}
