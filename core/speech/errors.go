package speech

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")
	// ErrEmptyAudio indicates an empty audio payload.
	ErrEmptyAudio = errors.New("empty audio payload")
	// ErrEmptyText indicates empty synthesis input.
	ErrEmptyText = errors.New("empty synthesis text")
	// ErrTranscriptionFailed indicates a failed speech-to-text call.
	ErrTranscriptionFailed = errors.New("failed to transcribe audio")
	// ErrSynthesisFailed indicates a failed text-to-speech call.
	ErrSynthesisFailed = errors.New("failed to synthesize speech")
)
