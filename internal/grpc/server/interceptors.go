package server

import (
	"context"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InterceptorLogger адаптирует slog к логгеру go-grpc-middleware.
func InterceptorLogger(l *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

// ServerOptions возвращает цепочку перехватчиков: восстановление после паники и журнал завершённых вызовов.
// Тела запросов не логируются, в них PIN-коды и пароли.
func ServerOptions(log *slog.Logger) []grpc.ServerOption {
	recoveryHandler := func(p any) error {
		log.Error("panic in grpc handler", slog.Any("panic", p))
		return status.Error(codes.Internal, "internal error")
	}
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(InterceptorLogger(log), logging.WithLogOnEvents(logging.FinishCall)),
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(recoveryHandler)),
		),
	}
}
