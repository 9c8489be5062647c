// Package registry tracks live WebSocket connections by session identity.
//
// Each session may hold several sub-channels (the primary audio channel and
// an optional companion code viewer), each with its own transport handle.
// The registry enforces at most one live connection per identity: a second
// connection attempt for the same (subject, channel) pair is rejected with
// ErrAlreadyRegistered rather than queued.
//
// Connections are exposed through the Conn interface so orchestration code
// and tests never depend on the WebSocket transport directly. The gorilla
// adapter, WSConn, guarantees that operations on a dead connection fail fast
// with ErrConnClosed instead of hanging.
package registry
