package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Default OpenAI model identifiers.
const (
	DefaultSTTModel = "whisper-1"
	DefaultTTSModel = "tts-1"
)

// OpenAI implements Transcriber and Synthesizer using OpenAI's audio APIs.
type OpenAI struct {
	client   openai.Client
	sttModel string
	ttsModel string
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithSTTModel sets the transcription model.
func WithSTTModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.sttModel = model
		}
	}
}

// WithTTSModel sets the synthesis model.
func WithTTSModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.ttsModel = model
		}
	}
}

// NewOpenAI creates an OpenAI speech client.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		sttModel: DefaultSTTModel,
		ttsModel: DefaultTTSModel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Transcribe converts an opus/ogg audio payload to text.
func (o *OpenAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(o.sttModel),
		File:  openai.File(bytes.NewReader(audio), "audio.ogg", "audio/ogg"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}

	return resp.Text, nil
}

// Synthesize renders text as opus audio bytes using the given voice.
func (o *OpenAI) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(o.ttsModel),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatOpus,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}
	return audio, nil
}
