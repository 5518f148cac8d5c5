// Package cache holds the transient, session-scoped scratch space that a session
// reset must purge.
package cache

import "context"

// SessionCache stores short-lived values scoped to one session node
type SessionCache interface {
	Put(ctx context.Context, sessionID, key string, value []byte) error
	// Get returns ok=false when the key is missing or expired
	Get(ctx context.Context, sessionID, key string) (value []byte, ok bool, err error)
	// Purge drops every value stored for the session
	Purge(ctx context.Context, sessionID string) error
	Close() error
}
