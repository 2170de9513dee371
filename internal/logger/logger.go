// Package logger configures brambling's zerolog loggers.
package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"brambling/internal/config"
)

var (
	once    sync.Once
	initErr error
)

// ParseLevel maps a configured level name to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "", "INFO":
		return zerolog.InfoLevel, nil
	case "WARN":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "DISABLED":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("incorrect log level: %s", level)
}

// New builds a logger writing to w. Console output is human-readable;
// otherwise one JSON object is written per line.
func New(cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if cfg.Log.Console {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "02-01-2006 15:04:05.000",
			FormatLevel: func(i interface{}) string {
				return strings.ToUpper(fmt.Sprintf("%-6s", i))
			},
			FieldsExclude: []string{"app"},
		}
	}

	appName := cfg.AppName
	if appName == "" {
		appName = "brambling"
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("app", appName).Logger(), nil
}

// Init installs the global logger once. Later calls return the result of
// the first one.
func Init(cfg *config.Config) error {
	once.Do(func() {
		initErr = install(cfg, os.Stderr)
	})
	return initErr
}

func install(cfg *config.Config, w io.Writer) error {
	l, err := New(cfg, w)
	if err != nil {
		return err
	}
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		parts := strings.Split(file, "/")
		return parts[len(parts)-1] + ":" + strconv.Itoa(line)
	}
	log.Logger = l.With().Caller().Logger()
	log.Debug().Msg("logger initialized")
	return nil
}
