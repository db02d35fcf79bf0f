package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/pkg/eventbus"
	"github.com/storegate/backoffice/internal/pkg/validate"
)

const loginPath = "/api/v1/auth/login"

// SessionService owns the authentication state machine:
// unauthenticated → authenticating → authenticated, and back on logout
// or forced invalidation. All transitions are serialized by the mutex.
type SessionService struct {
	mu    sync.Mutex
	state ports.SessionState

	gateway ports.Gateway
	store   ports.TokenStore
	bus     eventbus.Bus
	log     zerolog.Logger
}

var _ ports.SessionService = (*SessionService)(nil)

// loginResponse is the data payload of a successful login.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewSessionService constructs the session. A token already present in
// the store yields the authenticated state without a validation round
// trip: validity is confirmed lazily by the first protected call, so a
// stale token produces an immediate failed fetch rather than a blocked
// start. The service subscribes to TopicSessionExpired to force-clear
// when the gateway reports a rejected token.
func NewSessionService(gateway ports.Gateway, store ports.TokenStore, bus eventbus.Bus, log zerolog.Logger) *SessionService {
	s := &SessionService{
		state:   ports.StateUnauthenticated,
		gateway: gateway,
		store:   store,
		bus:     bus,
		log:     log,
	}
	if _, ok := store.Get(); ok {
		s.state = ports.StateAuthenticated
	}
	if bus != nil {
		if err := bus.Subscribe(eventbus.TopicSessionExpired, s.handleExpiry); err != nil {
			log.Error().Err(err).Msg("session: subscribe to expiry topic failed")
		}
	}
	return s
}

// Login exchanges the credential for a bearer token. The credential is
// validated client-side first; the returned error is one of the three
// distinguishable failure classes the login screen consumes.
func (s *SessionService) Login(ctx context.Context, cred domain.Credential) error {
	if err := validate.Struct(cred); err != nil {
		return err
	}

	s.setState(ports.StateAuthenticating)

	var resp loginResponse
	if err := s.gateway.Post(ctx, loginPath, cred, &resp); err != nil {
		s.setState(ports.StateUnauthenticated)
		return classifyLoginError(err)
	}
	if resp.AccessToken == "" {
		s.setState(ports.StateUnauthenticated)
		return &domain.BackendError{Status: 200, Detail: "login response carried no token"}
	}

	// Authenticated is entered only after the token is durably stored.
	if err := s.store.Set(resp.AccessToken); err != nil {
		s.setState(ports.StateUnauthenticated)
		return fmt.Errorf("session: persist token: %w", err)
	}
	s.setState(ports.StateAuthenticated)
	s.log.Info().Str("email", cred.Email).Msg("session authenticated")

	if s.bus != nil {
		s.bus.Publish(eventbus.TopicSessionAuthenticated)
	}
	return nil
}

// Logout clears the token and resets to unauthenticated. Local-only:
// no network round trip, always succeeds.
func (s *SessionService) Logout() {
	if err := s.store.Clear(); err != nil {
		s.log.Error().Err(err).Msg("session: clearing token store failed")
	}
	s.setState(ports.StateUnauthenticated)
	s.log.Info().Msg("session cleared")

	if s.bus != nil {
		s.bus.Publish(eventbus.TopicSessionCleared)
	}
}

func (s *SessionService) State() ports.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SessionService) IsAuthenticated() bool {
	return s.State() == ports.StateAuthenticated
}

// handleExpiry reacts to the gateway's 401-with-token signal. Idempotent
// and network-free, so repeated stale-token rejections settle here
// without looping.
func (s *SessionService) handleExpiry() {
	s.mu.Lock()
	if s.state != ports.StateAuthenticated {
		s.mu.Unlock()
		return
	}
	s.state = ports.StateUnauthenticated
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.log.Error().Err(err).Msg("session: clearing token store failed")
	}
	s.log.Warn().Msg("session invalidated by backend, token cleared")

	if s.bus != nil {
		s.bus.Publish(eventbus.TopicSessionCleared)
	}
}

func (s *SessionService) setState(state ports.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// classifyLoginError maps a gateway failure to the login screen's three
// failure classes. A 401 during login is a credential rejection even if
// a stale token happened to ride along on the request.
func classifyLoginError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthRejected), errors.Is(err, domain.ErrSessionExpired):
		return domain.ErrAuthRejected
	case errors.Is(err, domain.ErrNetworkUnavailable):
		return domain.ErrNetworkUnavailable
	}
	var be *domain.BackendError
	if errors.As(err, &be) {
		return be
	}
	return err
}
