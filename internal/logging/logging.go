// Package logging builds the zerolog logger used across doctester.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/artpar/doctester/internal/config"
	"github.com/rs/zerolog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to cfg.File, or to fallback when no file is
// configured. The closer releases the log file.
func New(cfg config.LogConfig, fallback io.Writer) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
		return logger, f, nil
	}

	if fallback == nil {
		return zerolog.Nop(), nopCloser{}, nil
	}

	out := zerolog.ConsoleWriter{Out: fallback, TimeFormat: time.Kitchen, NoColor: true}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, nopCloser{}, nil
}
