package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockparse/pkg/cache"
	lockio "github.com/matzehuels/lockparse/pkg/io"
	"github.com/matzehuels/lockparse/pkg/lockfile"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedParse is the cache envelope for a parse result.
type cachedParse struct {
	Format   string          `json:"format"`
	Document json.RawMessage `json:"document"`
}

// Parse validates opts and parses opts.Text, serving repeated inputs from
// the cache. Failed parses are not cached.
func (r *Runner) Parse(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	start := time.Now()
	key := r.Keyer.DocumentKey(opts.formatKey(), opts.Text)

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			res.Stats.ParseTime = time.Since(start)
			opts.Logger.Debug("document from cache", "source", opts.Source, "format", res.Format, "packages", res.Stats.Packages)
			return res, nil
		}
	}

	doc, format, err := Parse(ctx, opts)
	if err != nil {
		opts.Logger.Debug("parse failed", "source", opts.Source, "format", format, "error", err)
		return nil, err
	}

	res := &Result{
		Document: doc,
		Format:   format,
		CacheKey: key,
		Stats: Stats{
			Packages:  doc.Len(),
			Edges:     doc.EdgeCount(),
			ParseTime: time.Since(start),
		},
	}
	opts.Logger.Debug("parsed lock file",
		"source", opts.Source,
		"format", format,
		"packages", res.Stats.Packages,
		"edges", res.Stats.Edges,
		"duration", res.Stats.ParseTime)

	if data, err := lockio.MarshalJSON(doc); err == nil {
		envelope, _ := json.Marshal(cachedParse{Format: format.String(), Document: data})
		if err := r.Cache.Set(ctx, key, envelope, cache.TTLDocument); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		}
	}
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var env cachedParse
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	format, err := lockfile.ParseFormat(env.Format)
	if err != nil {
		return nil, false
	}
	doc, err := lockio.UnmarshalJSON(env.Document)
	if err != nil {
		return nil, false
	}
	return &Result{
		Document:  doc,
		Format:    format,
		CacheKey:  key,
		Stats:     Stats{Packages: doc.Len(), Edges: doc.EdgeCount()},
		CacheInfo: CacheInfo{ParseHit: true},
	}, true
}

// Detect validates text and reports its format without parsing.
func (r *Runner) Detect(ctx context.Context, text string) (lockfile.Format, error) {
	opts := Options{Text: text}
	if err := opts.ValidateForParse(); err != nil {
		return lockfile.FormatUnknown, err
	}
	return Detect(ctx, text), nil
}

// Render draws res.Document in each of opts.GraphFormats, reusing cached
// artifacts when every format is cached.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// RenderWithCacheInfo is Render that also reports whether the cache served
// every artifact.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(res.CacheKey, cache.ArtifactKeyOpts{Format: format, Kinds: opts.Kinds, Detailed: opts.Detailed})
	}

	if !opts.Refresh && res.CacheKey != "" {
		artifacts := make(map[string][]byte, len(opts.GraphFormats))
		for _, format := range opts.GraphFormats {
			data, hit, err := r.Cache.Get(ctx, keyFor(format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.GraphFormats) {
			return artifacts, true, nil
		}
	}

	start := time.Now()
	artifacts, err := Render(ctx, res.Document, opts)
	if err != nil {
		return nil, false, err
	}
	opts.Logger.Debug("rendered graph", "formats", opts.GraphFormats, "kinds", opts.Kinds, "duration", time.Since(start))

	if res.CacheKey != "" {
		for format, data := range artifacts {
			if err := r.Cache.Set(ctx, keyFor(format), data, cache.TTLArtifact); err != nil {
				opts.Logger.Warn("cache write failed", "error", err)
			}
		}
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
