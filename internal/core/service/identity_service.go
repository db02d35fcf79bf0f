package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
)

const currentUserPath = "/api/v1/users/me"

// IdentityService resolves the authenticated principal. It performs
// exactly one fetch per invocation and caches nothing: callers invoke
// it once per screen activation, and the returned role/active flag are
// authoritative for that screen's lifetime. Mid-session role changes
// are observed on the next activation.
type IdentityService struct {
	gateway ports.Gateway
	session ports.SessionService
	log     zerolog.Logger
}

var _ ports.IdentityService = (*IdentityService)(nil)

func NewIdentityService(gateway ports.Gateway, session ports.SessionService, log zerolog.Logger) *IdentityService {
	return &IdentityService{gateway: gateway, session: session, log: log}
}

// ResolveCurrent fetches the current principal. It requires an
// authenticated session; any fetch failure is wrapped as
// ErrIdentityUnavailable, which screens treat as fatal to themselves.
func (s *IdentityService) ResolveCurrent(ctx context.Context) (*domain.User, error) {
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	var user domain.User
	if err := s.gateway.Get(ctx, currentUserPath, nil, &user); err != nil {
		s.log.Debug().Err(err).Msg("identity fetch failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrIdentityUnavailable, err)
	}
	return &user, nil
}
