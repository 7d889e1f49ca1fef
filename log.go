package anim

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// logger receives binding diagnostics and debug frame stats. Replace it with
// SetLogger to route messages into an application's own logger.
var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Str("lib", "anim").Logger().Level(zerolog.InfoLevel)

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}
