package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/infrastructure/metrics"
)

// stubIdentity serves a fixed principal or error and counts calls.
type stubIdentity struct {
	principal *domain.User
	err       error
	calls     atomic.Int64
}

func (s *stubIdentity) ResolveCurrent(context.Context) (*domain.User, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func TestLoaderService_PartialFailureDegrades(t *testing.T) {
	identity := &stubIdentity{principal: admin(1)}
	loader := NewLoaderService(identity, zerolog.Nop())

	var products []domain.Product
	var categories []domain.Category
	var orders []domain.Order
	// Pre-fill the failing destination to prove degraded fetches
	// commit the empty collection rather than keeping old data.
	categories = []domain.Category{{ID: 99, Name: "stale"}}

	principal, err := loader.Load(context.Background(),
		Collection("products", func(context.Context) ([]domain.Product, error) {
			return []domain.Product{{ID: 1}, {ID: 2}}, nil
		}, &products),
		Collection("categories", func(context.Context) ([]domain.Category, error) {
			return nil, domain.ErrResourceUnavailable
		}, &categories),
		Collection("orders", func(context.Context) ([]domain.Order, error) {
			return []domain.Order{{ID: 30}}, nil
		}, &orders),
	)
	if err != nil {
		t.Fatalf("Load returned error for a degraded fetch: %v", err)
	}
	if principal == nil || principal.ID != 1 {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if len(products) != 2 || len(orders) != 1 {
		t.Fatalf("successful siblings lost data: products=%d orders=%d", len(products), len(orders))
	}
	if len(categories) != 0 {
		t.Fatalf("failing resource must yield an empty collection, got %v", categories)
	}
}

func TestLoaderService_IdentityFailureIsFatal(t *testing.T) {
	identity := &stubIdentity{err: domain.ErrIdentityUnavailable}
	loader := NewLoaderService(identity, zerolog.Nop())

	var fetches atomic.Int64
	var products []domain.Product
	aborted := testutil.ToFloat64(metrics.ScreenLoadsTotal.WithLabelValues("identity_failed"))

	_, err := loader.Load(context.Background(),
		Collection("products", func(context.Context) ([]domain.Product, error) {
			fetches.Add(1)
			return nil, nil
		}, &products),
	)
	if !errors.Is(err, domain.ErrIdentityUnavailable) {
		t.Fatalf("expected ErrIdentityUnavailable, got %v", err)
	}
	if n := fetches.Load(); n != 0 {
		t.Fatalf("identity failure must issue zero resource fetches, got %d", n)
	}
	if got := testutil.ToFloat64(metrics.ScreenLoadsTotal.WithLabelValues("identity_failed")); got != aborted+1 {
		t.Fatalf("identity_failed counter = %v, want %v", got, aborted+1)
	}
}

func TestLoaderService_IdentityResolvedOncePerLoad(t *testing.T) {
	identity := &stubIdentity{principal: admin(1)}
	loader := NewLoaderService(identity, zerolog.Nop())

	var products []domain.Product
	fetch := Collection("products", func(context.Context) ([]domain.Product, error) {
		return nil, nil
	}, &products)

	for i := 0; i < 3; i++ {
		if _, err := loader.Load(context.Background(), fetch); err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
	}
	if n := identity.calls.Load(); n != 3 {
		t.Fatalf("expected one identity fetch per load, got %d for 3 loads", n)
	}
}

func TestLoaderService_StaleCompletionDiscarded(t *testing.T) {
	identity := &stubIdentity{principal: admin(1)}
	loader := NewLoaderService(identity, zerolog.Nop())

	var products []domain.Product
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	// First load: starts, then stalls inside its fetch.
	firstDone := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(),
			Collection("products", func(context.Context) ([]domain.Product, error) {
				close(firstStarted)
				<-releaseFirst
				return []domain.Product{{ID: 1, Name: "old"}}, nil
			}, &products),
		)
		firstDone <- err
	}()

	<-firstStarted

	// Second load completes while the first is still in flight.
	if _, err := loader.Load(context.Background(),
		Collection("products", func(context.Context) ([]domain.Product, error) {
			return []domain.Product{{ID: 2, Name: "new"}, {ID: 3, Name: "newer"}}, nil
		}, &products),
	); err != nil {
		t.Fatalf("second load returned error: %v", err)
	}

	close(releaseFirst)
	select {
	case err := <-firstDone:
		if !errors.Is(err, domain.ErrStaleLoad) {
			t.Fatalf("expected ErrStaleLoad from the superseded load, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("first load never finished")
	}

	if len(products) != 2 || products[0].Name != "new" {
		t.Fatalf("stale completion overwrote newer results: %v", products)
	}
}

func TestLoaderService_CollectionsFetchedConcurrently(t *testing.T) {
	identity := &stubIdentity{principal: admin(1)}
	loader := NewLoaderService(identity, zerolog.Nop())

	// Two fetches that each wait for the other prove concurrent issue:
	// sequential execution would deadlock (and trip the timeout).
	aReady := make(chan struct{})
	bReady := make(chan struct{})
	var a, b []domain.Product

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(),
			Collection("a", func(context.Context) ([]domain.Product, error) {
				close(aReady)
				<-bReady
				return nil, nil
			}, &a),
			Collection("b", func(context.Context) ([]domain.Product, error) {
				close(bReady)
				<-aReady
				return nil, nil
			}, &b),
		)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("collection fetches were not issued concurrently")
	}
}
