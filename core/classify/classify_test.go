package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicescreen/interviewd/core/classify"
)

func TestDetectKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		want  classify.Kind
	}{
		{"plain narration", "Tell me about your background.", classify.KindNarration},
		{"problem marker", "Here we go. Problem 1: two sum --", classify.KindProblem},
		{"solution marker", "Sure. Solution: def solve(): pass --", classify.KindSolution},
		{"problem wins over solution", "Problem 2 relates to the Solution above --", classify.KindProblem},
		{"case sensitive", "we have a problem here", classify.KindNarration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classify.DetectKind(tt.reply))
		})
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("problem round trip", func(t *testing.T) {
		t.Parallel()

		reply := "Let's dive in. Problem 1: Given a string s, find the longest substring. -- Take your time."
		ext, err := classify.Extract(reply, classify.KindProblem)
		require.NoError(t, err)

		assert.Equal(t, "Given a string s, find the longest substring.", ext.Payload)
		assert.Equal(t, "Let's dive in. Take your time.", ext.Narration)
	})

	t.Run("solution round trip", func(t *testing.T) {
		t.Parallel()

		reply := "Sure, here it is. Solution: def two_sum(nums): return [] -- Let me know if anything is unclear."
		ext, err := classify.Extract(reply, classify.KindSolution)
		require.NoError(t, err)

		assert.Equal(t, "def two_sum(nums): return []", ext.Payload)
		assert.Equal(t, "Sure, here it is. Let me know if anything is unclear.", ext.Narration)
	})

	t.Run("empty trailing narration", func(t *testing.T) {
		t.Parallel()

		ext, err := classify.Extract("Problem 1: reverse a list --", classify.KindProblem)
		require.NoError(t, err)
		assert.Equal(t, "reverse a list", ext.Payload)
		assert.Empty(t, ext.Narration)
	})

	t.Run("empty leading narration", func(t *testing.T) {
		t.Parallel()

		ext, err := classify.Extract("Problem: merge intervals -- good luck", classify.KindProblem)
		require.NoError(t, err)
		assert.Equal(t, "merge intervals", ext.Payload)
		assert.Equal(t, "good luck", ext.Narration)
	})

	t.Run("marker absent", func(t *testing.T) {
		t.Parallel()

		_, err := classify.Extract("just chatting", classify.KindProblem)
		assert.ErrorIs(t, err, classify.ErrNoMarker)
	})

	t.Run("marker present but no terminator", func(t *testing.T) {
		t.Parallel()

		_, err := classify.Extract("Problem 1: unterminated statement", classify.KindProblem)
		assert.ErrorIs(t, err, classify.ErrMalformed)
	})

	t.Run("narration kind has no payload", func(t *testing.T) {
		t.Parallel()

		_, err := classify.Extract("whatever", classify.KindNarration)
		assert.ErrorIs(t, err, classify.ErrNoMarker)
	})
}

func TestExtractFenced(t *testing.T) {
	t.Parallel()

	t.Run("pulls first code fence", func(t *testing.T) {
		t.Parallel()

		reply := "Here is the idea.\n```python\ndef solve():\n    return 42\n```\nHope that helps."
		ext, err := classify.ExtractFenced(reply)
		require.NoError(t, err)

		assert.Equal(t, "def solve():\n    return 42", ext.Payload)
		assert.Equal(t, "Here is the idea. Hope that helps.", ext.Narration)
	})

	t.Run("fence without language tag", func(t *testing.T) {
		t.Parallel()

		ext, err := classify.ExtractFenced("```\nx = 1\n``` done")
		require.NoError(t, err)
		assert.Equal(t, "x = 1", ext.Payload)
		assert.Equal(t, "done", ext.Narration)
	})

	t.Run("no fence pair", func(t *testing.T) {
		t.Parallel()

		_, err := classify.ExtractFenced("no code here")
		assert.ErrorIs(t, err, classify.ErrNoMarker)
	})
}
