package transcript

import (
	"context"
	"fmt"
	"strings"
)

// Compactor reduces a transcript that has grown past the context-window
// threshold. Implementations must preserve the leading system entry.
type Compactor interface {
	Compact(ctx context.Context, entries []Entry) ([]Entry, error)
}

// Truncate discards the oldest turns, keeping the leading system entry and
// the most recent Keep entries.
type Truncate struct {
	// Keep is the number of non-system entries retained.
	Keep int
}

func (t Truncate) Compact(_ context.Context, entries []Entry) ([]Entry, error) {
	if t.Keep <= 0 || len(entries) == 0 {
		return entries, nil
	}

	var system []Entry
	rest := entries
	if entries[0].Role == RoleSystem {
		system = entries[:1]
		rest = entries[1:]
	}

	if len(rest) > t.Keep {
		rest = rest[len(rest)-t.Keep:]
	}

	out := make([]Entry, 0, len(system)+len(rest))
	out = append(out, system...)
	return append(out, rest...), nil
}

// SummarizeFunc produces a short summary of the given entries. The session
// orchestrator wires this to a dedicated completion call.
type SummarizeFunc func(ctx context.Context, entries []Entry) (string, error)

// Summarize replaces the discarded span with a single synthesized assistant
// summary entry, keeping the leading system entry and the most recent Keep
// entries verbatim.
type Summarize struct {
	Keep      int
	Summarize SummarizeFunc
}

func (s Summarize) Compact(ctx context.Context, entries []Entry) ([]Entry, error) {
	if s.Keep <= 0 || len(entries) == 0 {
		return entries, nil
	}

	var system []Entry
	rest := entries
	if entries[0].Role == RoleSystem {
		system = entries[:1]
		rest = entries[1:]
	}

	if len(rest) <= s.Keep {
		return entries, nil
	}

	discarded := rest[:len(rest)-s.Keep]
	kept := rest[len(rest)-s.Keep:]

	summary, err := s.Summarize(ctx, discarded)
	if err != nil {
		return nil, fmt.Errorf("summarize discarded span: %w", err)
	}

	out := make([]Entry, 0, len(system)+1+len(kept))
	out = append(out, system...)
	out = append(out, Entry{
		Role:    RoleAssistant,
		Content: "Summary of the conversation so far: " + strings.TrimSpace(summary),
	})
	return append(out, kept...), nil
}
