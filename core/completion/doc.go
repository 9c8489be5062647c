// Package completion wraps the chat-completion collaborators.
//
// Clients address models by a small set of fixed aliases; the package maps
// each alias to its provider-specific name and routes requests to the OpenAI
// or Gemini backend accordingly. Unknown aliases fail with ErrUnknownModel
// at configuration time rather than surfacing as provider errors mid-session.
//
// The audio pipeline always uses Complete, never Stream: marker-based
// classification needs the full reply text. Stream exists for the plain-text
// chat endpoint.
package completion
