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
	"github.com/storegate/backoffice/internal/infrastructure/tokenstore"
	"github.com/storegate/backoffice/internal/pkg/eventbus"
)

// stubGateway implements ports.Gateway with pluggable behaviour.
type stubGateway struct {
	getFn  func(ctx context.Context, path string, query url.Values, out any) error
	postFn func(ctx context.Context, path string, body, out any) error
}

func (g *stubGateway) Get(ctx context.Context, path string, query url.Values, out any) error {
	if g.getFn == nil {
		return nil
	}
	return g.getFn(ctx, path, query, out)
}

func (g *stubGateway) Post(ctx context.Context, path string, body, out any) error {
	if g.postFn == nil {
		return nil
	}
	return g.postFn(ctx, path, body, out)
}

func (g *stubGateway) Put(context.Context, string, any, any) error { return nil }

func (g *stubGateway) Patch(context.Context, string, any, any) error { return nil }

func (g *stubGateway) Delete(context.Context, string) error { return nil }

func issueToken(token string) func(ctx context.Context, path string, body, out any) error {
	return func(_ context.Context, _ string, _ any, out any) error {
		resp := out.(*loginResponse)
		resp.AccessToken = token
		resp.TokenType = "bearer"
		return nil
	}
}

func TestSessionService_Login_Success(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	bus := eventbus.New()
	authenticated := false
	if err := bus.Subscribe(eventbus.TopicSessionAuthenticated, func() { authenticated = true }); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	svc := NewSessionService(&stubGateway{postFn: issueToken("tok-123")}, store, bus, zerolog.Nop())
	if svc.State() != ports.StateUnauthenticated {
		t.Fatalf("initial state = %s, want unauthenticated", svc.State())
	}

	cred := domain.Credential{Email: "admin@example.com", Password: "admin123"}
	if err := svc.Login(context.Background(), cred); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if svc.State() != ports.StateAuthenticated {
		t.Fatalf("state = %s, want authenticated", svc.State())
	}
	token, ok := store.Get()
	if !ok || token != "tok-123" {
		t.Fatalf("store = (%q, %v), want (tok-123, true)", token, ok)
	}
	if !authenticated {
		t.Fatalf("expected authenticated event on the bus")
	}
}

func TestSessionService_Login_InvalidCredential(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	gw := &stubGateway{postFn: func(context.Context, string, any, any) error {
		return fmt.Errorf("POST /api/v1/auth/login: %w", domain.ErrAuthRejected)
	}}
	svc := NewSessionService(gw, store, nil, zerolog.Nop())

	err := svc.Login(context.Background(), domain.Credential{Email: "a@x.com", Password: "wrong"})
	if !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if svc.State() != ports.StateUnauthenticated {
		t.Fatalf("state = %s, want unauthenticated", svc.State())
	}
	if _, ok := store.Get(); ok {
		t.Fatalf("expected empty token store after rejected login")
	}
}

func TestSessionService_Login_StaleTokenDuringLogin(t *testing.T) {
	// A 401 during login is a credential rejection even when a stale
	// token rode along and the gateway classified it as expiry.
	gw := &stubGateway{postFn: func(context.Context, string, any, any) error {
		return fmt.Errorf("POST /api/v1/auth/login: %w", domain.ErrSessionExpired)
	}}
	svc := NewSessionService(gw, tokenstore.NewMemoryStore(), nil, zerolog.Nop())

	err := svc.Login(context.Background(), domain.Credential{Email: "a@x.com", Password: "wrong"})
	if !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
}

func TestSessionService_Login_NetworkFailure(t *testing.T) {
	gw := &stubGateway{postFn: func(context.Context, string, any, any) error {
		return fmt.Errorf("POST /api/v1/auth/login: %w: connection refused", domain.ErrNetworkUnavailable)
	}}
	svc := NewSessionService(gw, tokenstore.NewMemoryStore(), nil, zerolog.Nop())

	err := svc.Login(context.Background(), domain.Credential{Email: "a@x.com", Password: "pw"})
	if !errors.Is(err, domain.ErrNetworkUnavailable) {
		t.Fatalf("expected ErrNetworkUnavailable, got %v", err)
	}
	if svc.State() != ports.StateUnauthenticated {
		t.Fatalf("state = %s, want unauthenticated", svc.State())
	}
}

func TestSessionService_Login_BackendErrorVerbatim(t *testing.T) {
	gw := &stubGateway{postFn: func(context.Context, string, any, any) error {
		return fmt.Errorf("POST /api/v1/auth/login: %w", &domain.BackendError{Status: 422, Detail: "account locked"})
	}}
	svc := NewSessionService(gw, tokenstore.NewMemoryStore(), nil, zerolog.Nop())

	err := svc.Login(context.Background(), domain.Credential{Email: "a@x.com", Password: "pw"})
	var be *domain.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackendError, got %v", err)
	}
	if be.Detail != "account locked" {
		t.Fatalf("detail = %q, want verbatim backend message", be.Detail)
	}
}

func TestSessionService_Login_RejectsInvalidPayload(t *testing.T) {
	called := false
	gw := &stubGateway{postFn: func(context.Context, string, any, any) error {
		called = true
		return nil
	}}
	svc := NewSessionService(gw, tokenstore.NewMemoryStore(), nil, zerolog.Nop())

	if err := svc.Login(context.Background(), domain.Credential{Email: "not-an-email", Password: "pw"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if called {
		t.Fatalf("gateway must not be called for an invalid credential")
	}
}

func TestSessionService_Logout_AlwaysClears(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	_ = store.Set("tok")
	bus := eventbus.New()
	cleared := false
	if err := bus.Subscribe(eventbus.TopicSessionCleared, func() { cleared = true }); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	svc := NewSessionService(&stubGateway{}, store, bus, zerolog.Nop())
	if svc.State() != ports.StateAuthenticated {
		t.Fatalf("expected optimistic restore to authenticated")
	}

	svc.Logout()
	if svc.State() != ports.StateUnauthenticated {
		t.Fatalf("state = %s, want unauthenticated", svc.State())
	}
	if _, ok := store.Get(); ok {
		t.Fatalf("expected empty token store after logout")
	}
	if !cleared {
		t.Fatalf("expected cleared event on the bus")
	}

	// Logging out again is still a success.
	svc.Logout()
	if svc.State() != ports.StateUnauthenticated {
		t.Fatalf("second logout changed state to %s", svc.State())
	}
}

func TestSessionService_OptimisticRestore(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	_ = store.Set("stale-or-not")

	// No validation round trip happens at construction.
	svc := NewSessionService(&stubGateway{}, store, nil, zerolog.Nop())
	if !svc.IsAuthenticated() {
		t.Fatalf("stored token must yield authenticated state")
	}
}

func TestSessionService_ForcedExpiry(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	_ = store.Set("stale")
	bus := eventbus.New()

	svc := NewSessionService(&stubGateway{}, store, bus, zerolog.Nop())
	if !svc.IsAuthenticated() {
		t.Fatalf("expected authenticated after restore")
	}

	bus.Publish(eventbus.TopicSessionExpired)

	if svc.State() != ports.StateUnauthenticated {
		t.Fatalf("state = %s, want unauthenticated after forced expiry", svc.State())
	}
	if _, ok := store.Get(); ok {
		t.Fatalf("expected token cleared after forced expiry")
	}

	// Repeated expiry signals are idempotent.
	bus.Publish(eventbus.TopicSessionExpired)
	if svc.State() != ports.StateUnauthenticated {
		t.Fatalf("state changed on repeated expiry signal")
	}
}
