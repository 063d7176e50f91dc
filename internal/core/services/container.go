package services

import (
	"time"

	"tienda-console/internal/adapters/api"
	"tienda-console/internal/adapters/persistence/repositories"
	"tienda-console/internal/config"
	"tienda-console/internal/core/query"
	"tienda-console/internal/pkg/imageurl"

	"github.com/sirupsen/logrus"
)

// Container holds every service of the console, wired to one backend client and one store
type Container struct {
	Cache       *query.Cache
	Sessions    *SessionService
	Tokens      *TokenManager
	Auth        *AuthService
	Carts       *CartService
	Catalog     *CatalogService
	Orders      *OrderService
	Users       *UserService
	Dashboard   *DashboardService
	StoreConfig *StoreConfigService
	Files       *FileService
}

// NewContainer builds the services. base must be a client without a token
// source; authenticated calls go through a copy bound to the token manager.
func NewContainer(cfg *config.Config, store repositories.KeyValueStore, base *api.Client, log logrus.FieldLogger) (*Container, error) {
	cache := query.New(query.Options{StaleTime: cfg.Cache.ProductsStale, Logger: log})
	images := imageurl.Resolver{BaseURL: cfg.API.AssetBaseURL}

	sessions := NewSessionService(store, log)
	tokens := NewTokenManager(sessions, base, log)
	client := base.WithTokenSource(tokens)

	storeConfig, err := NewStoreConfigService(store, cfg.Storage.StoreConfigDefaults, log)
	if err != nil {
		return nil, err
	}

	carts := NewCartService(client, cache, cfg.Cache.CartStale, log)
	catalog := NewCatalogService(client, cache, cfg.Cache.ProductsStale, images, log)
	orders := NewOrderService(client, cache, cfg.Cache.OrdersStale, log)

	return &Container{
		Cache:       cache,
		Sessions:    sessions,
		Tokens:      tokens,
		Auth:        NewAuthService(client, sessions, carts, log),
		Carts:       carts,
		Catalog:     catalog,
		Orders:      orders,
		Users:       NewUserService(client, cache, cfg.Cache.UsersStale, log),
		Dashboard:   NewDashboardService(client, orders, catalog, cache, cfg.Cache.ReportsStale, log),
		StoreConfig: storeConfig,
		Files:       NewFileService(client, images, log),
	}, nil
}

// Close waits for background token renewals to finish
func (c *Container) Close(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		c.Tokens.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
