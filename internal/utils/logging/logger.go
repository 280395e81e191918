// Package logging configures the zerolog logger shared by services and
// handlers.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Error().Err(err).Uint("recipe_id", id).Msg("failed to delete image")
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	// Level is one of trace, debug, info, warn, error. Default: info.
	Level string

	// Format is json or console. Default: json.
	Format string

	Output io.Writer
}

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	mu.Lock()
	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	mu.Unlock()
}

func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Debug() *zerolog.Event { return Logger().Debug() }
func Info() *zerolog.Event  { return Logger().Info() }
func Warn() *zerolog.Event  { return Logger().Warn() }
func Error() *zerolog.Event { return Logger().Error() }
