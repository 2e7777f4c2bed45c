package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"voltpoint/internal/cache"
	"voltpoint/internal/config"
	"voltpoint/internal/db"
	httpserver "voltpoint/internal/http"
	"voltpoint/internal/http/handlers"
	"voltpoint/internal/http/middleware"
	"voltpoint/internal/password"
	"voltpoint/internal/repository"
	"voltpoint/internal/service"
	"voltpoint/internal/ws"
)

// App wires service dependencies.
type App struct {
	server      *httpserver.Server
	hub         *ws.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var (
		redisClient *redis.Client
		listCache   service.ListCache
	)
	if cfg.CacheEnabled() {
		redisClient, err = newRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		listCache = cache.NewStationListCache(redisClient, cfg.CacheTTL())
	}

	hub := ws.NewHub(30*time.Second, logger)

	stationRepo := repository.NewStationRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)

	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, password.NewBcryptHasher(0), tokenSvc, logger)
	stationsSvc := service.NewStationsService(stationRepo, listCache, hub, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:     handlers.NewAuthHandlers(authSvc, logger),
		StationsHandlers: handlers.NewStationsHandlers(stationsSvc, logger),
		StationEvents:    handlers.NewStationEventsHandler(hub, logger),
		HealthHandler:    handlers.NewHealthHandler(),
	}, middleware.Auth(tokenSvc))

	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		hub:         hub,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the HTTP server and the feed ping loop until ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases acquired resources.
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

func newRedisClient(addr, pass string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
