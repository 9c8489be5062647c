package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicescreen/interviewd/core/transcript"
)

// Completer produces chat completions for an ordered transcript.
type Completer interface {
	// Complete returns a single, full reply for the conversation.
	Complete(ctx context.Context, messages []transcript.Entry, model string) (string, error)
	// Stream returns an incremental sequence of reply fragments. The channel
	// is closed when the reply is complete or the context is canceled.
	// Streaming serves the plain-text chat endpoint only; the audio pipeline
	// always completes in full because markers are matched against the whole
	// reply.
	Stream(ctx context.Context, messages []transcript.Entry, model string) (<-chan string, error)
}

// Model aliases accepted from clients.
const (
	ModelGPT35       = "gpt-3.5"
	ModelGPT4o       = "gpt-4o"
	ModelGeminiFlash = "gemini-flash"
	ModelGeminiPro   = "gemini-pro"

	// DefaultModel is used when a session does not request a model.
	DefaultModel = ModelGPT4o
)

// modelMapping is the fixed lookup from client-facing aliases to provider
// model names. Unknown aliases are a configuration error, not a runtime one.
var modelMapping = map[string]string{
	ModelGPT35:       "gpt-3.5-turbo",
	ModelGPT4o:       "gpt-4o",
	ModelGeminiFlash: "gemini-2.0-flash",
	ModelGeminiPro:   "gemini-1.5-pro",
}

// ResolveModel maps a client alias to the provider-specific model name.
func ResolveModel(alias string) (string, error) {
	name, ok := modelMapping[alias]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, alias)
	}
	return name, nil
}

// Router dispatches completions to the provider owning the model alias.
type Router struct {
	openai *OpenAI
	google *Google
}

// NewRouter creates a router over the configured providers. Either provider
// may be nil; requests for its aliases then fail with ErrUnknownModel.
func NewRouter(openaiClient *OpenAI, googleClient *Google) *Router {
	return &Router{openai: openaiClient, google: googleClient}
}

func (r *Router) provider(alias string) (Completer, error) {
	switch {
	case strings.HasPrefix(alias, "gpt") && r.openai != nil:
		return r.openai, nil
	case strings.HasPrefix(alias, "gemini") && r.google != nil:
		return r.google, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, alias)
	}
}

func (r *Router) Complete(ctx context.Context, messages []transcript.Entry, model string) (string, error) {
	p, err := r.provider(model)
	if err != nil {
		return "", err
	}
	return p.Complete(ctx, messages, model)
}

func (r *Router) Stream(ctx context.Context, messages []transcript.Entry, model string) (<-chan string, error) {
	p, err := r.provider(model)
	if err != nil {
		return nil, err
	}
	return p.Stream(ctx, messages, model)
}
