package config

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogLevelEnv selects the minimum log level: debug, info, warn or error.
const LogLevelEnv = "SNAKE_LOG_LEVEL"

// NewLogger creates a timestamped logger writing to w. Unknown levels fall back to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(GetEnv(LogLevelEnv, "info")))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          prefix,
		Level:           level,
	})
}
