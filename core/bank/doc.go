// Package bank serves pre-authored interview problems and solutions.
//
// The model is never trusted to author gradable problems: at session start a
// random sample is drawn from the bank, and when the model announces a
// problem or a solution the orchestrator substitutes the bank's text for the
// model's own wording. A session consumes its sample in order through a
// Queue; exhausting the queue is recoverable and falls back to the model's
// marker text.
package bank
