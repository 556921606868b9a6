// Package logger provides component-tagged structured logging for the
// bridge. Call sites pass a short component name ("hub", "discord_gateway",
// "relay") so operators can filter one subsystem's output.
package logger

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Level re-exports zerolog's level type so callers don't import zerolog.
type Level = zerolog.Level

const (
	DEBUG = zerolog.DebugLevel
	INFO  = zerolog.InfoLevel
	WARN  = zerolog.WarnLevel
	ERROR = zerolog.ErrorLevel
)

var root atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
	root.Store(&l)
}

// SetLevel adjusts the minimum level emitted by all components.
func SetLevel(level Level) {
	l := root.Load().Level(level)
	root.Store(&l)
}

// SetOutput redirects log output. Tests use this to silence or capture logs.
func SetOutput(l zerolog.Logger) {
	root.Store(&l)
}

func DebugC(component, msg string) {
	root.Load().Debug().Str("component", component).Msg(msg)
}

func DebugCF(component, msg string, fields map[string]any) {
	root.Load().Debug().Str("component", component).Fields(fields).Msg(msg)
}

func InfoC(component, msg string) {
	root.Load().Info().Str("component", component).Msg(msg)
}

func InfoCF(component, msg string, fields map[string]any) {
	root.Load().Info().Str("component", component).Fields(fields).Msg(msg)
}

func WarnC(component, msg string) {
	root.Load().Warn().Str("component", component).Msg(msg)
}

func WarnCF(component, msg string, fields map[string]any) {
	root.Load().Warn().Str("component", component).Fields(fields).Msg(msg)
}

func ErrorC(component, msg string) {
	root.Load().Error().Str("component", component).Msg(msg)
}

func ErrorCF(component, msg string, fields map[string]any) {
	root.Load().Error().Str("component", component).Fields(fields).Msg(msg)
}
