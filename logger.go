package meadow

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger for meadow and the driver package.
// By default, meadow produces no log output. Pass nil to silence it again.
//
// Log levels used by meadow:
//   - [slog.LevelDebug]: per-frame raster stats and cloud re-placement
//   - [slog.LevelInfo]: lifecycle events (scene assembled, model loaded)
//   - [slog.LevelWarn]: debug-mode tree warnings, config reload failures
//   - [slog.LevelError]: models that failed to load, screenshot failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
