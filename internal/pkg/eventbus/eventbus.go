// Package eventbus carries the in-process signals that cross component
// boundaries without creating import cycles: the gateway announcing a
// rejected token, the session announcing its own transitions.
package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// Topics. Handlers take no arguments; the payload is always "look at
// the session".
const (
	// TopicSessionExpired: the gateway received a 401 on a request that
	// carried a bearer token. The session subscribes and force-clears.
	TopicSessionExpired = "session.expired"
	// TopicSessionAuthenticated: login completed and the token is
	// durably stored. Screens treat this as "navigate to dashboard".
	TopicSessionAuthenticated = "session.authenticated"
	// TopicSessionCleared: logout or forced invalidation completed.
	// Screens treat this as "navigate to login".
	TopicSessionCleared = "session.cleared"
)

// Bus re-exports the underlying bus interface so consumers don't import
// the vendor package directly.
type Bus = evbus.Bus

// New creates a synchronous event bus.
func New() Bus {
	return evbus.New()
}
