package registry

import "errors"

var (
	// ErrAlreadyRegistered is returned when an identity already maps to a live
	// connection. The second connection attempt is rejected, never queued.
	ErrAlreadyRegistered = errors.New("connection already registered for identity")
	// ErrConnClosed is returned by sends and receives on a closed connection.
	ErrConnClosed = errors.New("connection closed")
	// ErrNilConn is returned when registering a nil connection.
	ErrNilConn = errors.New("connection is nil")
)
