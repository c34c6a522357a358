package main

import (
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

type logEnv struct {
	File  string `env:"TTSKIT_LOGFILE"`
	Debug bool   `env:"TTSKIT_DEBUG"`
}

// setupLog configures the process logger from the environment. Logging is
// discarded unless a log file or debug mode is requested. The returned closer
// flushes the log file, if any.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logEnv]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log environment: %w", err)
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		log.SetOutput(f)
		return f.Close, nil
	}

	if cfg.Debug {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
	return func() error { return nil }, nil
}
