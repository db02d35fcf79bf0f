package rest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/core/service"
	"github.com/storegate/backoffice/internal/infrastructure/rest"
	"github.com/storegate/backoffice/internal/infrastructure/tokenstore"
	"github.com/storegate/backoffice/internal/pkg/eventbus"
	"github.com/storegate/backoffice/internal/testsupport/stubapi"
)

// env wires the full client stack against a stub backend, the way the
// CLI does at startup.
type env struct {
	backend    *stubapi.Backend
	store      *tokenstore.MemoryStore
	session    *service.SessionService
	identity   *service.IdentityService
	loader     *service.LoaderService
	products   ports.ProductRepository
	categories ports.CategoryRepository
	orders     ports.OrderRepository
	users      ports.UserRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	backend := stubapi.New()
	srv := backend.Server()
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	store := tokenstore.NewMemoryStore()
	bus := eventbus.New()
	gateway := rest.NewClient(srv.URL, store, bus, log)
	session := service.NewSessionService(gateway, store, bus, log)
	identity := service.NewIdentityService(gateway, session, log)

	return &env{
		backend:    backend,
		store:      store,
		session:    session,
		identity:   identity,
		loader:     service.NewLoaderService(identity, log),
		products:   rest.NewProductRepository(gateway),
		categories: rest.NewCategoryRepository(gateway),
		orders:     rest.NewOrderRepository(gateway),
		users:      rest.NewUserRepository(gateway),
	}
}

func (e *env) loginAdmin(t *testing.T) {
	t.Helper()
	cred := domain.Credential{Email: "admin@example.com", Password: "admin123"}
	if err := e.session.Login(context.Background(), cred); err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
}

func TestIntegration_LoginIssuesDurableToken(t *testing.T) {
	e := newEnv(t)
	e.loginAdmin(t)

	if !e.session.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}
	if token, ok := e.store.Get(); !ok || token == "" {
		t.Fatalf("expected non-empty stored token")
	}
}

func TestIntegration_RejectedLogin(t *testing.T) {
	e := newEnv(t)
	cred := domain.Credential{Email: "a@x.com", Password: "wrong"}
	err := e.session.Login(context.Background(), cred)
	if !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if e.session.IsAuthenticated() {
		t.Fatalf("session must stay unauthenticated")
	}
	if _, ok := e.store.Get(); ok {
		t.Fatalf("token store must stay empty")
	}
}

func TestIntegration_DashboardDegradesWhenCategoriesFail(t *testing.T) {
	e := newEnv(t)
	e.loginAdmin(t)
	e.backend.SetFail("categories", true)

	var products []domain.Product
	var categories []domain.Category
	var orders []domain.Order
	ctx := context.Background()

	principal, err := e.loader.Load(ctx,
		service.Collection("products", func(ctx context.Context) ([]domain.Product, error) {
			return e.products.List(ctx, ports.ProductFilter{})
		}, &products),
		service.Collection("categories", func(ctx context.Context) ([]domain.Category, error) {
			return e.categories.List(ctx)
		}, &categories),
		service.Collection("orders", func(ctx context.Context) ([]domain.Order, error) {
			return e.orders.List(ctx, ports.OrderFilter{})
		}, &orders),
	)
	if err != nil {
		t.Fatalf("Load returned error for a degraded screen: %v", err)
	}
	if !principal.IsAdmin() {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	stats := domain.ComputeDashboardStats(products, categories, orders)
	if stats.Products != 3 || stats.Orders != 3 {
		t.Fatalf("stats lost data from healthy resources: %+v", stats)
	}
	if stats.Categories != 0 {
		t.Fatalf("failing resource must contribute an empty collection, got %d", stats.Categories)
	}
	if stats.ActiveProducts != 2 || stats.PendingOrders != 1 {
		t.Fatalf("derived stats wrong: %+v", stats)
	}
}

func TestIntegration_StaleTokenForcesLogout(t *testing.T) {
	backend := stubapi.New()
	srv := backend.Server()
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	store := tokenstore.NewMemoryStore()
	_ = store.Set("garbage-token")
	bus := eventbus.New()
	gateway := rest.NewClient(srv.URL, store, bus, log)

	// Optimistic restore trusts the stored token...
	session := service.NewSessionService(gateway, store, bus, log)
	if !session.IsAuthenticated() {
		t.Fatalf("stored token must restore the session optimistically")
	}
	identity := service.NewIdentityService(gateway, session, log)

	// ...and the first protected call forces the logout.
	_, err := identity.ResolveCurrent(context.Background())
	if !errors.Is(err, domain.ErrIdentityUnavailable) {
		t.Fatalf("expected ErrIdentityUnavailable, got %v", err)
	}
	if session.IsAuthenticated() {
		t.Fatalf("session must be invalidated after the backend rejects the token")
	}
	if _, ok := store.Get(); ok {
		t.Fatalf("token must be cleared after forced expiry")
	}
}

func TestIntegration_BareIdentityShapeTolerated(t *testing.T) {
	e := newEnv(t)
	e.loginAdmin(t)
	e.backend.BareIdentity = true

	principal, err := e.identity.ResolveCurrent(context.Background())
	if err != nil {
		t.Fatalf("ResolveCurrent returned error for bare shape: %v", err)
	}
	if principal.Email != "admin@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestIntegration_IdentityFailureIssuesZeroResourceFetches(t *testing.T) {
	e := newEnv(t)
	e.loginAdmin(t)

	// Invalidate the token behind the session's back: identity will
	// fail while the session still reports authenticated.
	_ = e.store.Set("garbage")

	var products []domain.Product
	_, err := e.loader.Load(context.Background(),
		service.Collection("products", func(ctx context.Context) ([]domain.Product, error) {
			return e.products.List(ctx, ports.ProductFilter{})
		}, &products),
	)
	if !errors.Is(err, domain.ErrIdentityUnavailable) {
		t.Fatalf("expected ErrIdentityUnavailable, got %v", err)
	}
	if n := e.backend.ResourceRequests(); n != 0 {
		t.Fatalf("identity failure must issue zero resource fetches, backend saw %d", n)
	}
}

func TestIntegration_UserListIsRoleGated(t *testing.T) {
	e := newEnv(t)
	cred := domain.Credential{Email: "casey@example.com", Password: "customer123"}
	if err := e.session.Login(context.Background(), cred); err != nil {
		t.Fatalf("customer login failed: %v", err)
	}

	_, err := e.users.List(context.Background(), ports.UserFilter{})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for customer, got %v", err)
	}
}

func TestIntegration_RepositoriesRoundTrip(t *testing.T) {
	e := newEnv(t)
	e.loginAdmin(t)
	ctx := context.Background()

	created, err := e.products.Create(ctx, ports.ProductInput{
		Name: "Keyboard", Description: "mechanical", Price: 89.99, StockQuantity: 4, CategoryID: 11,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned product ID")
	}

	updated, err := e.products.UpdateStock(ctx, created.ID, 9)
	if err != nil {
		t.Fatalf("UpdateStock returned error: %v", err)
	}
	if updated.StockQuantity != 9 {
		t.Fatalf("stock = %d, want 9", updated.StockQuantity)
	}

	filtered, err := e.products.List(ctx, ports.ProductFilter{Name: "keyboard"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != created.ID {
		t.Fatalf("name filter missed the created product: %v", filtered)
	}

	pending, err := e.orders.List(ctx, ports.OrderFilter{Status: domain.OrderPending})
	if err != nil {
		t.Fatalf("List orders returned error: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected exactly one pending order, got %d", len(pending))
	}

	order, err := e.orders.UpdateStatus(ctx, pending[0].ID, domain.OrderPaid)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if order.Status != domain.OrderPaid {
		t.Fatalf("status = %s, want paid", order.Status)
	}

	if err := e.products.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := e.products.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
