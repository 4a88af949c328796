// Package core holds the transport-neutral contracts shared by the
// registry and the websocket adapter.
package core

// ConnID is unique per live connection, minted by the adapter on upgrade.
type ConnID string

// Frame is a marshaled outbound envelope.
type Frame []byte

// Sender is the outbound half of a client connection.
// TrySend must never block; a full or closed connection returns an error.
// Owned by the adapter; the adapter must close the underlying transport.
type Sender interface {
	TrySend(Frame) error
}
