// Package classify inspects chat-completion replies and splits them into
// spoken narration and structured payloads.
//
// The strategy is deliberately simple: the interview prompt instructs the
// model to open payload blocks with a literal "Problem" or "Solution" marker
// and close them with "--", so classification is a case-sensitive keyword
// scan and extraction is a delimiter split. The package distinguishes a
// missing marker (ErrNoMarker) from a present-but-malformed block
// (ErrMalformed) so the orchestrator can retry with the looser code-fence
// extraction before treating the reply as plain narration.
package classify
