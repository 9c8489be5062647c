package vectorizer

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrBatchTooLarge indicates the batch size exceeds the provider limit.
	ErrBatchTooLarge = errors.New("batch size exceeds limit")

	// ErrEmbeddingFailed indicates a failure creating embeddings.
	ErrEmbeddingFailed = errors.New("failed to create embedding")

	// ErrNoEmbeddingReturned indicates the API returned no embedding.
	ErrNoEmbeddingReturned = errors.New("no embedding returned")

	// ErrEmbeddingCountMismatch indicates the returned count differs from the input.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrClientCreationFailed indicates a failure creating the API client.
	ErrClientCreationFailed = errors.New("failed to create API client")
)
