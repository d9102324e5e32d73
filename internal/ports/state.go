package ports

// Package ports defines interfaces (hexagonal ports) for the session core.
// Implementations live in internal/adapters; orchestration in internal/service.

import "context"

// Key names a value in a state store. The same key set exists in both
// scopes; the service layer guarantees auth keys are never populated in
// both scopes for the same session.
type Key string

const (
	KeyAccessToken     Key = "access_token"
	KeyRefreshToken    Key = "refresh_token"
	KeyUser            Key = "user"
	KeyIsAuthenticated Key = "is_authenticated"
	KeyRememberedEmail Key = "remembered_email"
	KeyActiveView      Key = "active_view"
	KeyDisclaimerAck   Key = "disclaimer_ack"
)

// AuthKeys are the keys that together form the credential part of a
// session. They are written and cleared atomically, never individually.
var AuthKeys = []Key{KeyAccessToken, KeyRefreshToken, KeyUser, KeyIsAuthenticated}

// SessionScopedKeys are cleared from both stores on logout in addition to
// AuthKeys, so the next session does not inherit them.
var SessionScopedKeys = []Key{KeyActiveView, KeyDisclaimerAck}

// StateStore is one scope of client state: a small string key-value store.
// Implementations must tolerate concurrent use from a single process.
type StateStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key Key) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key Key, value string) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...Key) error
}
