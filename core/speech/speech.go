package speech

import "context"

// Transcriber converts spoken audio to text.
type Transcriber interface {
	// Transcribe converts an opus/ogg audio payload to a transcript.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts text to spoken audio.
type Synthesizer interface {
	// Synthesize renders text as audio bytes using the given voice.
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
