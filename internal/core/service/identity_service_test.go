package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
)

// stubSession reports a fixed session state.
type stubSession struct {
	state ports.SessionState
}

func (s *stubSession) Login(context.Context, domain.Credential) error { return nil }
func (s *stubSession) Logout()                                        {}
func (s *stubSession) State() ports.SessionState                      { return s.state }
func (s *stubSession) IsAuthenticated() bool                          { return s.state == ports.StateAuthenticated }

func TestIdentityService_ResolveCurrent(t *testing.T) {
	gw := &stubGateway{getFn: func(_ context.Context, path string, _ url.Values, out any) error {
		if path != "/api/v1/users/me" {
			return fmt.Errorf("unexpected path %s", path)
		}
		*out.(*domain.User) = domain.User{ID: 7, Name: "Admin One", Role: domain.RoleAdmin, IsActive: true}
		return nil
	}}
	svc := NewIdentityService(gw, &stubSession{state: ports.StateAuthenticated}, zerolog.Nop())

	user, err := svc.ResolveCurrent(context.Background())
	if err != nil {
		t.Fatalf("ResolveCurrent returned error: %v", err)
	}
	if user.ID != 7 || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected principal: %+v", user)
	}
}

func TestIdentityService_RequiresAuthenticatedSession(t *testing.T) {
	called := false
	gw := &stubGateway{getFn: func(context.Context, string, url.Values, any) error {
		called = true
		return nil
	}}
	svc := NewIdentityService(gw, &stubSession{state: ports.StateUnauthenticated}, zerolog.Nop())

	if _, err := svc.ResolveCurrent(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if called {
		t.Fatalf("gateway must not be called without an authenticated session")
	}
}

func TestIdentityService_FetchFailureIsIdentityUnavailable(t *testing.T) {
	gw := &stubGateway{getFn: func(context.Context, string, url.Values, any) error {
		return fmt.Errorf("GET /api/v1/users/me: %w", &domain.BackendError{Status: 500, Detail: "boom"})
	}}
	svc := NewIdentityService(gw, &stubSession{state: ports.StateAuthenticated}, zerolog.Nop())

	_, err := svc.ResolveCurrent(context.Background())
	if !errors.Is(err, domain.ErrIdentityUnavailable) {
		t.Fatalf("expected ErrIdentityUnavailable, got %v", err)
	}
	// The underlying cause stays inspectable.
	var be *domain.BackendError
	if !errors.As(err, &be) || be.Status != 500 {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}
