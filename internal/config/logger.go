package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the shared charmbracelet/log logger per the
// log_level/log_to_file/log_to_stdout fields: both outputs may be enabled at
// once (a MultiWriter), and enabling neither yields a logger that discards
// everything rather than panicking on a nil writer.
func NewLogger(cfg *Config) (*log.Logger, error) {
	var writers []io.Writer
	if cfg.LogToStdout {
		writers = append(writers, os.Stdout)
	}
	if cfg.LogToFile {
		f, err := os.OpenFile("graphsynth.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger, nil
}
