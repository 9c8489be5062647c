package transcript

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is a single role-tagged utterance.
type Entry struct {
	Role    Role
	Content string
}

// Buffer is the ordered, per-session conversation transcript. Entries are
// appended in strict chronological order and re-read in full on every
// completion call. A Buffer is exclusively owned by the session goroutine
// that created it and is deliberately unsynchronized.
type Buffer struct {
	entries []Entry
}

// New creates a buffer seeded with the leading system entry (the interview
// persona and instructions).
func New(systemPrompt string) *Buffer {
	return &Buffer{entries: []Entry{{Role: RoleSystem, Content: systemPrompt}}}
}

// Append adds an entry at the end of the transcript.
func (b *Buffer) Append(role Role, content string) {
	b.entries = append(b.entries, Entry{Role: role, Content: content})
}

// Entries returns a copy of the transcript in chronological order.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries, including the system entry.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// System returns the leading system entry if present.
func (b *Buffer) System() (Entry, bool) {
	if len(b.entries) == 0 || b.entries[0].Role != RoleSystem {
		return Entry{}, false
	}
	return b.entries[0], true
}

// WithoutSystem returns a copy of the transcript with the leading system
// entry removed. Used when persisting conversations: the persona prompt is
// configuration, not user data.
func (b *Buffer) WithoutSystem() []Entry {
	entries := b.Entries()
	if len(entries) > 0 && entries[0].Role == RoleSystem {
		return entries[1:]
	}
	return entries
}

// Replace swaps the transcript content. Used by compaction.
func (b *Buffer) Replace(entries []Entry) {
	b.entries = append(b.entries[:0], entries...)
}
