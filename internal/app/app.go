package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parklane/internal/cache"
	"parklane/internal/config"
	"parklane/internal/http/handlers"
	"parklane/internal/http/middleware"
	"parklane/internal/identity"
	"parklane/internal/repository"
	"parklane/internal/service"
	"parklane/internal/ws"
	"parklane/libs/db"
	libredis "parklane/libs/redis"

	httpserver "parklane/internal/http"
)

// App wires parklane dependencies.
type App struct {
	server      *httpserver.Server
	hub         *ws.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph. Redis is optional: without an
// address the active-session cache is simply disabled.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var (
		redisClient  *redis.Client
		sessionCache service.ActiveSessionCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		sessionCache = cache.NewActiveSessionStore(redisClient, cfg.ActiveSessionTTL())
	}

	hub := ws.NewHub(logger)

	sessionRepo := repository.NewSessionRepository(sqlDB)
	lotRepo := repository.NewLotRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	paymentRepo := repository.NewPaymentRepository(sqlDB)

	sessionsService := service.NewSessionsService(sessionRepo, lotRepo, vehicleRepo, sessionCache, hub, logger)
	billingService := service.NewBillingService(sessionRepo, lotRepo, paymentRepo, logger)

	tokens := identity.NewTokenService(cfg.Auth.JWTSecret, 0)

	sessionsHandler := handlers.NewSessionsHandler(sessionsService, logger)
	billingHandler := handlers.NewBillingHandler(billingService, logger)

	routes := httpserver.Routes{
		SessionStart:  sessionsHandler.HandleStart,
		SessionStop:   sessionsHandler.HandleStop,
		SessionList:   sessionsHandler.HandleList,
		BillingOwn:    billingHandler.HandleOwn,
		BillingByUser: billingHandler.HandleByUsername,
		Events:        handlers.NewEventsHandler(hub, logger),
		Health:        handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes, middleware.OptionalIdentity(tokens))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		hub:         hub,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the HTTP server and the session event hub.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
