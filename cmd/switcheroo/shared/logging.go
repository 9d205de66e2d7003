package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures console logging at the given level. Unknown levels
// fall back to info.
func SetupLogger(level string) *log.Logger {
	return NewLogger(os.Stderr, level)
}

// NewLogger builds a logger writing to w, used directly by the TUI which must
// keep stderr clear for rendering.
func NewLogger(w io.Writer, level string) *log.Logger {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           parsed,
	})
}
