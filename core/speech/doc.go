// Package speech wraps the speech-to-text and text-to-speech collaborators.
//
// Both directions are opaque remote calls: whisper transcription of opus/ogg
// microphone payloads, and tts-1 synthesis of narration text into opus audio.
// The Transcriber and Synthesizer interfaces keep the orchestrator and tests
// independent of the OpenAI client.
package speech
