package registry

import (
	"sync"
)

// ChannelPrimary and ChannelCode are the well-known sub-channel names.
// The primary channel carries the audio turn loop; the code channel is a
// companion viewer that receives structured problem/solution text.
const (
	ChannelPrimary = ""
	ChannelCode    = "code"
)

// Identity names one sub-channel of one session.
type Identity struct {
	Subject string
	Channel string
}

// Primary returns the identity of the session's primary sub-channel.
func (id Identity) Primary() Identity {
	return Identity{Subject: id.Subject, Channel: ChannelPrimary}
}

// Code returns the identity of the session's code-viewer sub-channel.
func (id Identity) Code() Identity {
	return Identity{Subject: id.Subject, Channel: ChannelCode}
}

// Registry is the process-wide map from identity to live connection.
// It holds non-owning references used for routing only; session goroutines
// own their connections. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	conns map[Identity]Conn
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{conns: make(map[Identity]Conn)}
}

// Register maps the identity to the connection. If the identity already maps
// to a live connection, Register rejects with ErrAlreadyRegistered and the
// existing connection is untouched.
func (r *Registry) Register(id Identity, conn Conn) error {
	if conn == nil {
		return ErrNilConn
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[id]; exists {
		return ErrAlreadyRegistered
	}
	r.conns[id] = conn
	return nil
}

// Unregister removes the identity's mapping. Removing an absent identity is
// a no-op, so teardown paths may call it unconditionally.
func (r *Registry) Unregister(id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Lookup returns the live connection for the identity, if any. Used when one
// sub-channel pushes data to a sibling within the same session.
func (r *Registry) Lookup(id Identity) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
