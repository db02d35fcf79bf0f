package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the client surfaces.
// Callers branch with errors.Is; everything else arrives as a
// *BackendError carrying the server's own words.
var (
	// ErrAuthRejected means the backend refused the presented credential.
	ErrAuthRejected = errors.New("invalid credentials")

	// ErrSessionExpired means the backend rejected a previously valid
	// bearer token. The session is already being torn down when this
	// error reaches the caller.
	ErrSessionExpired = errors.New("session expired")

	// ErrNetworkUnavailable means the request never produced an HTTP
	// response (DNS failure, refused connection, timeout).
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrNotAuthenticated means an operation requiring a session was
	// attempted without one. No request was issued.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrIdentityUnavailable means the principal could not be resolved;
	// the screen load it belonged to was aborted.
	ErrIdentityUnavailable = errors.New("identity unavailable")

	// ErrResourceUnavailable marks a collection fetch that degraded to
	// an empty result.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrStaleLoad means a screen load finished after a newer one had
	// already committed; its results were discarded.
	ErrStaleLoad = errors.New("superseded by a newer load")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// BackendError is a non-2xx response that fits none of the sentinels.
// Detail is the backend's message, passed through verbatim.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}
