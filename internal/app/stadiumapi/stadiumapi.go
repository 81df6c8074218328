package stadiumapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/stadium-auth/internal/cache"
	"github.com/magabrotheeeer/stadium-auth/internal/config"
	"github.com/magabrotheeeer/stadium-auth/internal/grpc/client"
	"github.com/magabrotheeeer/stadium-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
	"github.com/magabrotheeeer/stadium-auth/internal/metrics"
	membershipservice "github.com/magabrotheeeer/stadium-auth/internal/services/membership"
	"github.com/magabrotheeeer/stadium-auth/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *storage.Storage
	cache      *cache.Cache
	authClient *client.AuthClient
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.stadiumapi.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	limiter := middlewarectx.NewIPRateLimiter(cfg.RPS, cfg.Burst)
	if err := limiter.TrustProxies(cfg.TrustedProxies); err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authClient, err := client.NewAuthClient(cfg.GRPCAuthAddress)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:            logger,
		AuthClient:        authClient,
		MembershipService: membershipservice.NewService(db, cacheRedis, authClient, cfg.CacheTTL, logger),
		Metrics:           metrics.New(prometheus.DefaultRegisterer),
		Gatherer:          prometheus.DefaultGatherer,
		Limiter:           limiter,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		authClient: authClient,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.authClient.Close(); err != nil {
		a.logger.Warn("failed to close auth client", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
