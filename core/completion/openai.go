package completion

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/voicescreen/interviewd/core/transcript"
)

const defaultTemperature = 0.3

// OpenAI implements Completer using OpenAI chat completions.
type OpenAI struct {
	client      openai.Client
	temperature float64
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithOpenAITemperature sets the sampling temperature.
func WithOpenAITemperature(temperature float64) OpenAIOption {
	return func(o *OpenAI) {
		o.temperature = temperature
	}
}

// NewOpenAI creates an OpenAI completion client.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Complete returns a single non-streamed reply for the conversation.
func (o *OpenAI) Complete(ctx context.Context, messages []transcript.Entry, model string) (string, error) {
	name, err := ResolveModel(model)
	if err != nil {
		return "", err
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(name),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(o.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

// Stream returns reply fragments as they arrive.
func (o *OpenAI) Stream(ctx context.Context, messages []transcript.Entry, model string) (<-chan string, error) {
	name, err := ResolveModel(model)
	if err != nil {
		return nil, err
	}

	stream := o.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(name),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(o.temperature),
	})

	out := make(chan string)
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case out <- chunk.Choices[0].Delta.Content:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func toOpenAIMessages(messages []transcript.Entry) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case transcript.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case transcript.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
