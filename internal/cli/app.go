package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/core/service"
	"github.com/storegate/backoffice/internal/infrastructure/config"
	"github.com/storegate/backoffice/internal/infrastructure/rest"
	"github.com/storegate/backoffice/internal/infrastructure/tokenstore"
	"github.com/storegate/backoffice/internal/pkg/eventbus"
	"github.com/storegate/backoffice/pkg/logger"
)

// App holds the wired application graph shared by every command.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Session  ports.SessionService
	Identity ports.IdentityService
	Gate     *service.AccessGate
	Loader   *service.LoaderService

	Products   ports.ProductRepository
	Categories ports.CategoryRepository
	Orders     ports.OrderRepository
	Users      ports.UserRepository
}

// newApp builds the full dependency graph: configuration, logger,
// durable token store, REST gateway, session machinery and the
// REST-backed repositories. serverOverride, when non-empty, replaces
// the configured API base URL.
func newApp(serverOverride string) (*App, error) {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	baseURL := cfg.APIBaseURL
	if serverOverride != "" {
		baseURL = serverOverride
	}

	store, err := tokenstore.NewFileStore(cfg.Home)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	bus := eventbus.New()
	gateway := rest.NewClient(baseURL, store, bus, log, rest.WithTimeout(cfg.HTTPTimeout))

	session := service.NewSessionService(gateway, store, bus, log)
	identity := service.NewIdentityService(gateway, session, log)

	return &App{
		Config:     cfg,
		Log:        log,
		Session:    session,
		Identity:   identity,
		Gate:       service.NewAccessGate(session),
		Loader:     service.NewLoaderService(identity, log),
		Products:   rest.NewProductRepository(gateway),
		Categories: rest.NewCategoryRepository(gateway),
		Orders:     rest.NewOrderRepository(gateway),
		Users:      rest.NewUserRepository(gateway),
	}, nil
}
