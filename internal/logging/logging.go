package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger: console output in development, JSON
// everywhere else.
func New(env string) zerolog.Logger {
	var w io.Writer = os.Stdout
	level := zerolog.InfoLevel

	if env == "" || env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "service-scheduler").
		Logger()
}
