package server

import (
	"context"
	"fmt"

	"github.com/ekrishihub/storefront/internal/auth"
	"github.com/ekrishihub/storefront/internal/cart"
	"github.com/ekrishihub/storefront/internal/catalog"
	"github.com/ekrishihub/storefront/internal/config"
	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/gateway"
	"github.com/ekrishihub/storefront/internal/guard"
	"github.com/ekrishihub/storefront/internal/notify"
	"github.com/ekrishihub/storefront/internal/orders"
	"github.com/ekrishihub/storefront/internal/profile"
	"github.com/ekrishihub/storefront/internal/ratelimit"
	"github.com/ekrishihub/storefront/internal/session"
	"github.com/ekrishihub/storefront/internal/storage"
	"github.com/ekrishihub/storefront/internal/tasks"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App is the wired storefront
type App struct {
	Engine  *gin.Engine
	Routes  *guard.RouteTable
	Store   *credential.Store
	Session *session.State
	Feed    *notify.Feed
	Client  *gateway.Client

	unsubscribe func()
}

// Build wires every component on top of st and cooldown
func Build(ctx context.Context, cfg *config.Config, st storage.Storage, cooldown ratelimit.Cooldown, logger *zap.Logger) (*App, error) {
	store := credential.NewStore(st, logger.Named("credential"))

	live := session.New(logger.Named("session"))
	if err := live.Hydrate(ctx, store); err != nil {
		logger.Warn("Could not restore session", zap.Error(err))
	}
	unsubscribe := store.Subscribe(live.Observe)

	feed := notify.NewFeed(cfg.Notify.Capacity, logger.Named("notify"))

	classifier, err := gateway.NewClassifier(cfg.API.BaseURL, cfg.API.Prefix, cfg.API.PublicPaths)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}
	transport := gateway.NewTransport(gateway.TransportConfig{
		Classifier: classifier,
		Store:      store,
		Notifier:   feed,
		Navigator:  gateway.NewContextNavigator(logger.Named("navigate")),
		Targets: gateway.ExpiryTargets{
			FarmerLogin:   cfg.Session.FarmerLoginPath,
			CustomerLogin: cfg.Session.CustomerLoginPath,
		},
		RoleAware: cfg.Session.RoleAwareExpiryRedirect,
		Logger:    logger.Named("gateway"),
	})
	client := gateway.NewClient(classifier, transport, cfg.API.Timeout, logger.Named("client"))

	targets := guard.Targets{
		FarmerLogin:       cfg.Session.FarmerLoginPath,
		CustomerLogin:     cfg.Session.CustomerLoginPath,
		FarmerDashboard:   cfg.Session.FarmerDashboardPath,
		CustomerDashboard: cfg.Session.CustomerDashboardPath,
	}
	g := guard.New(store, live, targets, logger.Named("guard"))

	authService := auth.NewService(client, store, cooldown, targets, logger.Named("auth"))
	payment := orders.PaymentConfig{
		KeyOverride:  cfg.Payment.KeyOverride,
		Currency:     cfg.Payment.Currency,
		MerchantName: cfg.Payment.MerchantName,
	}

	var health func(context.Context) error
	if p, ok := st.(storage.Pinger); ok {
		health = p.Health
	}

	engine, routes := NewRouter(Deps{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Targets:        targets,
		Health:         health,
		Guard:          g,
		Session:        live,
		Feed:           feed,
		Auth:           auth.NewHandler(authService, feed, cfg.Turnstile.SiteKey),
		Catalog:        catalog.NewHandler(catalog.NewService(client), feed),
		Tasks:          tasks.NewHandler(tasks.NewService(client), feed),
		Orders:         orders.NewHandler(orders.NewService(client, payment, logger.Named("orders")), feed),
		Cart:           cart.NewHandler(cart.NewService(client)),
		Profile:        profile.NewHandler(profile.NewService(client, store, logger.Named("profile")), live, feed),
	})

	return &App{
		Engine:      engine,
		Routes:      routes,
		Store:       store,
		Session:     live,
		Feed:        feed,
		Client:      client,
		unsubscribe: unsubscribe,
	}, nil
}

// Close detaches the live session from the store
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}
