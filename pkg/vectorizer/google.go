package vectorizer

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleTextEmbedding005 is the default Google embedding model.
const GoogleTextEmbedding005 = "text-embedding-005"

const defaultGoogleDimensions = 768

// Google implements the Vectorizer interface using Google's Generative AI API.
type Google struct {
	client     *genai.Client
	model      string
	dimensions int
	maxBatch   int
}

// GoogleOption is a functional option for configuring Google.
type GoogleOption func(*Google)

// WithGoogleModel sets the embedding model to use.
func WithGoogleModel(model string) GoogleOption {
	return func(g *Google) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGoogleDimensions sets the output dimensionality.
func WithGoogleDimensions(dims int) GoogleOption {
	return func(g *Google) {
		if dims > 0 {
			g.dimensions = dims
		}
	}
}

// NewGoogle creates a new Google vectorizer with Gemini API key authentication.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClientCreationFailed, err)
	}

	g := &Google{
		client:     client,
		model:      GoogleTextEmbedding005,
		dimensions: defaultGoogleDimensions,
		maxBatch:   100,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Embed converts a single text to a vector embedding.
func (g *Google) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := g.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch converts multiple texts to vector embeddings in input order.
func (g *Google) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if len(texts) > g.maxBatch {
		return nil, fmt.Errorf("%w: got %d texts, max is %d", ErrBatchTooLarge, len(texts), g.maxBatch)
	}
	return g.embed(ctx, texts)
}

func (g *Google) embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(text)},
		}
	}

	dims := int32(g.dimensions)
	resp, err := g.client.Models.EmbedContent(ctx, "models/"+g.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, ErrEmbeddingCountMismatch
	}

	result := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, ErrNoEmbeddingReturned
		}
		result[i] = emb.Values
	}
	return result, nil
}

// Dimensions returns the vector size this implementation produces.
func (g *Google) Dimensions() int {
	return g.dimensions
}
