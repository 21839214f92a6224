package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cafehere/config"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitLogger configures the global zerolog logger: colored console output in
// development, JSON in production, and a daily rotated file when LOG_FILE is set.
// The returned closer releases the log file.
func InitLogger(cfg *config.Config) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	if !cfg.IsProduction() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		rl, err := rotatelogs.New(
			cfg.LogFile+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.LogFile),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("log file %s: %w", cfg.LogFile, err)
		}
		out = zerolog.MultiLevelWriter(out, rl)
		closer = rl
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer, nil
}
