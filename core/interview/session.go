package interview

import (
	"github.com/google/uuid"

	"github.com/voicescreen/interviewd/core/bank"
	"github.com/voicescreen/interviewd/core/completion"
	"github.com/voicescreen/interviewd/core/registry"
	"github.com/voicescreen/interviewd/core/speech"
	"github.com/voicescreen/interviewd/core/transcript"
)

// State names the position of a session inside its turn loop.
type State int

const (
	StateAwaitingInput State = iota
	StateTranscribing
	StateCompleting
	StateClassifying
	StateResponding
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateTranscribing:
		return "transcribing"
	case StateCompleting:
		return "completing"
	case StateClassifying:
		return "classifying"
	case StateResponding:
		return "responding"
	default:
		return "closed"
	}
}

// Session is the per-connection interview state. It is created on a
// successful handshake and from then on owned exclusively by the goroutine
// running it, so none of its fields are synchronized.
type Session struct {
	Subject    uuid.UUID
	Channel    string
	Voice      string
	Model      string
	Filters    bank.Filters
	Turns      int
	Transcript *transcript.Buffer

	state State
}

// SessionOption configures a new session.
type SessionOption func(*Session)

// WithVoice pins the synthesis voice instead of picking one at random.
func WithVoice(voice string) SessionOption {
	return func(s *Session) { s.Voice = voice }
}

// WithModel selects the completion model alias for the session.
func WithModel(model string) SessionOption {
	return func(s *Session) { s.Model = model }
}

// WithFilters sets the problem bank filters for the session.
func WithFilters(f bank.Filters) SessionOption {
	return func(s *Session) { s.Filters = f.Normalize() }
}

// NewSession creates a session for the subject with a fresh transcript seeded
// by the system prompt. The voice is chosen once here and held for the whole
// session.
func NewSession(subject uuid.UUID, systemPrompt string, opts ...SessionOption) *Session {
	s := &Session{
		Subject:    subject,
		Channel:    registry.ChannelPrimary,
		Voice:      speech.RandomVoice(),
		Model:      completion.DefaultModel,
		Filters:    bank.Filters{}.Normalize(),
		Transcript: transcript.New(systemPrompt),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Identity is the session's registry identity.
func (s *Session) Identity() registry.Identity {
	return registry.Identity{Subject: s.Subject.String(), Channel: s.Channel}
}

// State reports where the session currently is in its turn loop.
func (s *Session) State() State {
	return s.state
}
