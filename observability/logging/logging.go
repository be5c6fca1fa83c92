// Package logging configures the ledger's structured logger: slog with
// JSON on stdout, matching the teacher's convention. The process
// entrypoint logs through it; the ledger components themselves do not log.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures a JSON slog.Logger tagged with service/env and installs
// it as the process default. Call once at process startup; no component
// takes a *slog.Logger of its own.
func Setup(service, env string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			case slog.LevelKey:
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			case slog.MessageKey:
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})

	attrs := []any{slog.String("service", strings.TrimSpace(service))}
	if env = strings.TrimSpace(env); env != "" {
		attrs = append(attrs, slog.String("env", env))
	}

	logger := slog.New(handler).With(attrs...)
	slog.SetDefault(logger)
	return logger
}
