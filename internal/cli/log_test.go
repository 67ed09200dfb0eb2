package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockparse/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("parsed lock file")

	if !strings.Contains(buf.String(), "parsed lock file (") {
		t.Errorf("progress.done() output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should return default logger when none set")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.SetLogLevel(LogInfo)
	if _, ok := observability.Parse().(logHooks); ok {
		t.Fatal("hooks registered at info level")
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.Parse().(logHooks); !ok {
		t.Fatalf("Parse() = %T, want logHooks", observability.Parse())
	}

	ctx := context.Background()
	observability.Parse().OnParseComplete(ctx, "npm", 3, time.Millisecond, nil)
	observability.Parse().OnParseComplete(ctx, "pnpm", 0, time.Millisecond, errors.New("boom"))
	observability.Cache().OnCacheHit(ctx, "doc")
	observability.HTTP().OnResponse(ctx, "req-1", "POST", "/v1/parse", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"parse complete", "parse failed", "boom", "cache hit", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
