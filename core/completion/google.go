package completion

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/voicescreen/interviewd/core/transcript"
)

// Google implements Completer using Google's Generative AI API.
type Google struct {
	client      *genai.Client
	temperature float32
}

// GoogleOption is a functional option for configuring Google.
type GoogleOption func(*Google)

// WithGoogleTemperature sets the sampling temperature.
func WithGoogleTemperature(temperature float32) GoogleOption {
	return func(g *Google) {
		g.temperature = temperature
	}
}

// NewGoogle creates a Gemini completion client with API key authentication.
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

	g := &Google{client: client, temperature: defaultTemperature}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Complete returns a single non-streamed reply for the conversation.
func (g *Google) Complete(ctx context.Context, messages []transcript.Entry, model string) (string, error) {
	name, err := ResolveModel(model)
	if err != nil {
		return "", err
	}

	contents, config := g.toGenaiRequest(messages)
	resp, err := g.client.Models.GenerateContent(ctx, name, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// Stream returns reply fragments as they arrive.
func (g *Google) Stream(ctx context.Context, messages []transcript.Entry, model string) (<-chan string, error) {
	name, err := ResolveModel(model)
	if err != nil {
		return nil, err
	}

	contents, config := g.toGenaiRequest(messages)
	out := make(chan string)
	go func() {
		defer close(out)
		for resp, err := range g.client.Models.GenerateContentStream(ctx, name, contents, config) {
			if err != nil {
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case out <- text:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// toGenaiRequest maps transcript entries onto the Gemini request shape: the
// leading system entry becomes the system instruction, user/assistant turns
// become user/model contents.
func (g *Google) toGenaiRequest(messages []transcript.Entry) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case transcript.RoleSystem:
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{genai.NewPartFromText(m.Content)},
			}
		case transcript.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{genai.NewPartFromText(m.Content)},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{genai.NewPartFromText(m.Content)},
			})
		}
	}

	return contents, config
}
