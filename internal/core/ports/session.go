package ports

import (
	"context"

	"github.com/storegate/backoffice/internal/core/domain"
)

// SessionState is the authentication state of the client.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticating  SessionState = "authenticating"
	StateAuthenticated   SessionState = "authenticated"
)

// SessionService owns the authentication state machine. All state
// transitions happen through it; nothing else touches the token store
// once the session is constructed.
type SessionService interface {
	// Login exchanges a credential for a bearer token. On failure the
	// returned error is one of domain.ErrAuthRejected,
	// domain.ErrNetworkUnavailable or a *domain.BackendError.
	Login(ctx context.Context, cred domain.Credential) error
	// Logout clears the token and resets to unauthenticated. It is
	// local-only and always succeeds.
	Logout()
	State() SessionState
	IsAuthenticated() bool
}

// IdentityService resolves the authenticated principal. One fetch per
// invocation; callers invoke it once per screen activation and treat
// the result as authoritative for that screen's lifetime.
type IdentityService interface {
	ResolveCurrent(ctx context.Context) (*domain.User, error)
}
