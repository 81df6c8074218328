// Package logger настраивает slog в зависимости от окружения.
package logger

import (
	"io"
	"log/slog"
)

// Окружения из конфига.
const (
	EnvLocal = "local"
	EnvTest  = "test"
	EnvProd  = "prod"
)

// Setup возвращает текстовый логгер с уровнем Debug для local и test
// и JSON-логгер с уровнем Info для prod и неизвестных окружений.
func Setup(env string, w io.Writer) *slog.Logger {
	switch env {
	case EnvLocal, EnvTest:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
