package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/lockparse/pkg/observability"
	"github.com/matzehuels/lockparse/pkg/pipeline"
)

type recordingCacheHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingCacheHooks) record(event, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event+":"+keyType)
}

func (h *recordingCacheHooks) OnCacheHit(_ context.Context, keyType string)  { h.record("hit", keyType) }
func (h *recordingCacheHooks) OnCacheMiss(_ context.Context, keyType string) { h.record("miss", keyType) }
func (h *recordingCacheHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.record("set", keyType)
}

func TestNewServerRunnerScopesKeys(t *testing.T) {
	defer observability.Reset()
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Config.Cache.Backend = backendMemory

	runner, err := c.newServerRunner(t.Context())
	if err != nil {
		t.Fatalf("newServerRunner() error: %v", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Text: `{"lockfileVersion":3,"packages":{}}`}
	res, err := runner.Parse(t.Context(), opts)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !strings.HasPrefix(res.CacheKey, "api:doc:") {
		t.Errorf("CacheKey = %q, want prefix %q", res.CacheKey, "api:doc:")
	}

	again, err := runner.Parse(t.Context(), opts)
	if err != nil {
		t.Fatalf("second Parse() error: %v", err)
	}
	if !again.CacheInfo.ParseHit {
		t.Error("second Parse() should come from the memory cache")
	}

	hooks.mu.Lock()
	got := strings.Join(hooks.events, " ")
	hooks.mu.Unlock()
	if want := "miss:doc set:doc hit:doc"; got != want {
		t.Errorf("cache events = %q, want %q", got, want)
	}
}

func TestNewServerRunnerReplacesFileBackend(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Config.Cache.Backend = backendFile
	c.Config.Cache.Dir = t.TempDir()

	runner, err := c.newServerRunner(t.Context())
	if err != nil {
		t.Fatalf("newServerRunner() error: %v", err)
	}
	defer runner.Close()

	if _, err := runner.Parse(t.Context(), pipeline.Options{Text: `{"lockfileVersion":3,"packages":{}}`}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if n := countFiles(t, c.Config.Cache.Dir); n != 0 {
		t.Errorf("server runner wrote %d files to the file cache dir", n)
	}
}
