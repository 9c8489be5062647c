package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/voicescreen/interviewd/core/archive"
	"github.com/voicescreen/interviewd/core/bank"
	"github.com/voicescreen/interviewd/core/classify"
	"github.com/voicescreen/interviewd/core/completion"
	"github.com/voicescreen/interviewd/core/registry"
	"github.com/voicescreen/interviewd/core/speech"
	"github.com/voicescreen/interviewd/core/transcript"
)

// ErrEmptyAudio is returned when a client sends an empty audio frame. It is
// terminal for the session, unlike an absent text supplement which is an
// ordinary branch of the turn.
var ErrEmptyAudio = speech.ErrEmptyAudio

const (
	// defaultTextWait bounds how long a turn waits for an optional typed
	// supplement after the audio frame arrives.
	defaultTextWait = time.Second
	// defaultMaxEntries is the transcript length past which compaction runs.
	defaultMaxEntries = 50
)

// Orchestrator drives interview sessions through their turn loop. One
// Orchestrator serves many concurrent sessions; all per-session state lives
// in the Session, so the Orchestrator itself is stateless and safe to share.
type Orchestrator struct {
	registry    *registry.Registry
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	completer   completion.Completer
	bank        bank.Bank
	archiver    archive.Archiver
	compactor   transcript.Compactor
	log         *slog.Logger

	textWait   time.Duration
	maxEntries int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTextWait overrides the bounded wait for a typed supplement.
func WithTextWait(d time.Duration) Option {
	return func(o *Orchestrator) { o.textWait = d }
}

// WithMaxEntries overrides the transcript compaction threshold.
func WithMaxEntries(n int) Option {
	return func(o *Orchestrator) { o.maxEntries = n }
}

// WithCompactor overrides the transcript compaction strategy.
func WithCompactor(c transcript.Compactor) Option {
	return func(o *Orchestrator) { o.compactor = c }
}

// New creates an Orchestrator with the given collaborators. The logger may
// be nil.
func New(
	reg *registry.Registry,
	transcriber speech.Transcriber,
	synthesizer speech.Synthesizer,
	completer completion.Completer,
	b bank.Bank,
	archiver archive.Archiver,
	log *slog.Logger,
	opts ...Option,
) *Orchestrator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	o := &Orchestrator{
		registry:    reg,
		transcriber: transcriber,
		synthesizer: synthesizer,
		completer:   completer,
		bank:        b,
		archiver:    archiver,
		compactor:   transcript.Truncate{Keep: defaultMaxEntries / 2},
		log:         log,
		textWait:    defaultTextWait,
		maxEntries:  defaultMaxEntries,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the session's turn loop on conn until the client disconnects,
// the context is canceled, or a terminal fault occurs. Whatever the exit
// path, the transcript minus its system entry is archived exactly once and
// the session is unregistered before Run returns.
func (o *Orchestrator) Run(ctx context.Context, sess *Session, conn registry.Conn) error {
	log := o.log.With(
		slog.String("subject", sess.Subject.String()),
		slog.String("voice", sess.Voice),
		slog.String("model", sess.Model),
	)

	defer o.finish(ctx, sess, log)

	queue, err := o.sampleQueue(ctx, sess, log)
	if err != nil {
		return err
	}

	for {
		if err := o.turn(ctx, sess, conn, queue, log); err != nil {
			sess.state = StateClosed
			if errors.Is(err, registry.ErrConnClosed) || errors.Is(err, context.Canceled) {
				log.InfoContext(ctx, "session closed", slog.Int("turns", sess.Turns))
				return nil
			}
			log.ErrorContext(ctx, "session aborted",
				slog.Int("turns", sess.Turns), slog.Any("error", err))
			return err
		}
		sess.Turns++
	}
}

// sampleQueue draws the session's problem/solution entries up front. A bank
// failure is not terminal: the queue starts exhausted and turns fall back to
// the model's own text.
func (o *Orchestrator) sampleQueue(ctx context.Context, sess *Session, log *slog.Logger) (*bank.Queue, error) {
	entries, err := o.bank.Sample(ctx, sess.Filters)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		log.ErrorContext(ctx, "problem bank sampling failed", slog.Any("error", err))
		entries = nil
	}
	return bank.NewQueue(entries), nil
}

// turn runs one full request/response cycle.
func (o *Orchestrator) turn(ctx context.Context, sess *Session, conn registry.Conn, queue *bank.Queue, log *slog.Logger) error {
	sess.state = StateAwaitingInput
	audio, err := conn.ReceiveBytes(ctx)
	if err != nil {
		return err
	}
	if len(audio) == 0 {
		return ErrEmptyAudio
	}

	supplement, err := conn.ReceiveText(ctx, o.textWait)
	if err != nil {
		return err
	}

	sess.state = StateTranscribing
	text, err := o.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return fmt.Errorf("transcribing turn input: %w", err)
	}
	if supplement != "" {
		text = text + " " + supplement
	}
	sess.Transcript.Append(transcript.RoleUser, text)

	sess.state = StateCompleting
	reply, err := o.completer.Complete(ctx, sess.Transcript.Entries(), sess.Model)
	if err != nil {
		return fmt.Errorf("completing turn: %w", err)
	}
	sess.Transcript.Append(transcript.RoleAssistant, reply)

	sess.state = StateClassifying
	narration, payload := o.classifyReply(ctx, sess, reply, queue, log)

	sess.state = StateResponding
	if narration != "" {
		speechAudio, err := o.synthesizer.Synthesize(ctx, narration, sess.Voice)
		if err != nil {
			return fmt.Errorf("synthesizing reply: %w", err)
		}
		if err := conn.SendBytes(ctx, speechAudio); err != nil {
			return err
		}
	}
	if payload != "" {
		if err := o.sendPayload(ctx, sess, conn, payload); err != nil {
			return err
		}
	}

	return o.compact(ctx, sess, log)
}

// classifyReply splits the model reply into spoken narration and the
// structured payload routed to the code viewer. Problem and solution payloads
// are replaced by the bank queue's next entry when one remains; otherwise the
// model's own text stands.
func (o *Orchestrator) classifyReply(ctx context.Context, sess *Session, reply string, queue *bank.Queue, log *slog.Logger) (narration, payload string) {
	kind := classify.DetectKind(reply)
	if kind == classify.KindNarration {
		return reply, ""
	}

	ext, err := classify.Extract(reply, kind)
	if err != nil && kind == classify.KindSolution {
		// Models fence solution code more reliably than they terminate it.
		ext, err = classify.ExtractFenced(reply)
	}
	if err != nil {
		log.WarnContext(ctx, "marker extraction failed, treating reply as narration",
			slog.String("kind", kind.String()), slog.Any("error", err))
		return reply, ""
	}

	var banked string
	var ok bool
	switch kind {
	case classify.KindProblem:
		banked, ok = queue.NextQuestion()
	case classify.KindSolution:
		banked, ok = queue.NextSolution()
	}
	if ok {
		// Record what was actually presented so later completions reason
		// about the substituted entry, not the model's invention.
		sess.Transcript.Append(transcript.RoleAssistant, banked)
		return ext.Narration, banked
	}

	log.WarnContext(ctx, "bank queue exhausted, using model text",
		slog.String("kind", kind.String()))
	return ext.Narration, ext.Payload
}

// sendPayload routes structured text to the session's code sub-channel when
// one is live, falling back to the primary connection.
func (o *Orchestrator) sendPayload(ctx context.Context, sess *Session, conn registry.Conn, payload string) error {
	if code, ok := o.registry.Lookup(sess.Identity().Code()); ok {
		if err := code.SendText(ctx, payload); err == nil {
			return nil
		}
		// Viewer died between lookup and send; the primary still gets it.
	}
	return conn.SendText(ctx, payload)
}

// compact shrinks the transcript once it exceeds the threshold. Compaction
// failure is logged and skipped; the next turn retries.
func (o *Orchestrator) compact(ctx context.Context, sess *Session, log *slog.Logger) error {
	if sess.Transcript.Len() <= o.maxEntries {
		return nil
	}
	compacted, err := o.compactor.Compact(ctx, sess.Transcript.Entries())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		log.WarnContext(ctx, "transcript compaction failed", slog.Any("error", err))
		return nil
	}
	sess.Transcript.Replace(compacted)
	return nil
}

// finish archives the transcript and unregisters the session. It runs on a
// context detached from cancellation so a client disconnect cannot abort its
// own persistence.
func (o *Orchestrator) finish(ctx context.Context, sess *Session, log *slog.Logger) {
	sess.state = StateClosed

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := o.archiver.Save(saveCtx, sess.Subject, sess.Transcript.WithoutSystem()); err != nil {
		log.ErrorContext(saveCtx, "archiving session transcript failed", slog.Any("error", err))
	}

	o.registry.Unregister(sess.Identity())
}
