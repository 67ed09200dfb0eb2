package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockparse/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Parsed 42 packages (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks reports parse, cache and HTTP events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetParseHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnDetect(_ context.Context, format string, d time.Duration) {
	h.logger.Debug("detected format", "format", format, "duration", d)
}

func (h logHooks) OnParseStart(_ context.Context, format string, size int) {
	h.logger.Debug("parse started", "format", format, "bytes", size)
}

func (h logHooks) OnParseComplete(_ context.Context, format string, packages int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "format", format, "duration", d, "error", err)
		return
	}
	h.logger.Debug("parse complete", "format", format, "packages", packages, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, requestID, method, route string) {
	h.logger.Debug("request", "id", requestID, "method", method, "route", route)
}

func (h logHooks) OnResponse(_ context.Context, requestID, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "id", requestID, "method", method, "route", route, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, requestID, method, route string, err error) {
	h.logger.Warn("request failed", "id", requestID, "method", method, "route", route, "error", err)
}
