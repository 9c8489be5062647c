// Package transcript holds the per-session conversation buffer and its
// context-window compaction policies.
//
// A Buffer is an ordered list of role-tagged utterances seeded with a system
// entry. It is owned by exactly one session goroutine and carries no locking.
// When the transcript exceeds the configured entry threshold, a Compactor
// shrinks it: Truncate drops the oldest turns, Summarize collapses them into
// one synthesized summary entry. Both preserve the leading system entry.
package transcript
