package vectorizer

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI embedding model constants.
const (
	OpenAITextEmbedding3Small = "text-embedding-3-small"
	OpenAITextEmbeddingAda002 = "text-embedding-ada-002"
)

const defaultOpenAIDimensions = 1536

// OpenAI implements the Vectorizer interface using OpenAI's embeddings API.
type OpenAI struct {
	client   openai.Client
	model    string
	maxBatch int
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel sets the embedding model to use.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIMaxBatchSize sets the maximum batch size for batch operations.
func WithOpenAIMaxBatchSize(size int) OpenAIOption {
	return func(o *OpenAI) {
		if size > 0 && size <= 2048 { // OpenAI API limit
			o.maxBatch = size
		}
	}
}

// NewOpenAI creates a new OpenAI vectorizer.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    OpenAITextEmbedding3Small,
		maxBatch: 100,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Embed converts a single text to a vector embedding.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoEmbeddingReturned
	}

	return toFloat32(resp.Data[0].Embedding), nil
}

// EmbedBatch converts multiple texts to vector embeddings in input order.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if len(texts) > o.maxBatch {
		return nil, fmt.Errorf("%w: got %d texts, max is %d", ErrBatchTooLarge, len(texts), o.maxBatch)
	}

	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(texts), len(resp.Data))
	}

	result := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		result[i] = toFloat32(data.Embedding)
	}
	return result, nil
}

// Dimensions returns the vector size this implementation produces.
func (o *OpenAI) Dimensions() int {
	return defaultOpenAIDimensions
}

// toFloat32 converts the API response (float64) to the storage format.
func toFloat32(embedding []float64) []float32 {
	out := make([]float32, len(embedding))
	for i, v := range embedding {
		out[i] = float32(v)
	}
	return out
}
