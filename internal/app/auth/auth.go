// Package auth собирает gRPC-приложение сервиса аутентификации.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/streadway/amqp"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/stadium-auth/internal/config"
	"github.com/magabrotheeeer/stadium-auth/internal/grpc/authrpc"
	"github.com/magabrotheeeer/stadium-auth/internal/grpc/server"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/password"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
	"github.com/magabrotheeeer/stadium-auth/internal/rabbitmq"
	authservices "github.com/magabrotheeeer/stadium-auth/internal/services/auth"
	"github.com/magabrotheeeer/stadium-auth/internal/storage"
)

const (
	rabbitRetries = 5
	rabbitDelay   = 2 * time.Second
)

type App struct {
	grpcServer *grpc.Server
	listener   net.Listener
	logger     *slog.Logger
	db         *storage.Storage
	amqpConn   *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.auth.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = storage.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	codec, err := jwt.NewCodec(cfg.JWTSecretKey, cfg.Issuer)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	authService := authservices.NewAuthService(db, password.New(cfg.BcryptCost), codec, logger)

	app := &App{logger: logger, db: db}

	var events server.EventPublisher = rabbitmq.NopPublisher{}
	if cfg.RabbitURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitURL, rabbitRetries, rabbitDelay)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange)
		if err != nil {
			_ = conn.Close()
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.amqpConn = conn
		events = rabbitmq.NewEventPublisher(ch, cfg.Exchange, cfg.RoutingKey)
	} else {
		logger.Warn("rabbitmq url is empty, login events are not published")
	}

	lis, err := net.Listen("tcp", cfg.GRPCAuthAddress)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.listener = lis

	app.grpcServer = grpc.NewServer(server.ServerOptions(logger)...)
	authrpc.RegisterAuthServiceServer(app.grpcServer, server.NewAuthServer(authService, events, logger))

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("Auth gRPC service listening on", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gRPC server gracefully")
		a.grpcServer.GracefulStop()
		a.close()
		return nil
	case err := <-errCh:
		a.close()
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

func (a *App) close() {
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
