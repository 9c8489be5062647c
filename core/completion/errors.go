package completion

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")
	// ErrUnknownModel indicates a model alias outside the fixed lookup table.
	ErrUnknownModel = errors.New("unknown model alias")
	// ErrEmptyCompletion indicates the provider returned no choices.
	ErrEmptyCompletion = errors.New("completion returned no content")
	// ErrCompletionFailed indicates a failed upstream completion call.
	ErrCompletionFailed = errors.New("completion request failed")
	// ErrClientCreationFailed indicates a failure creating the provider client.
	ErrClientCreationFailed = errors.New("failed to create completion client")
)
