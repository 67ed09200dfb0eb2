// Package cli implements the lockparse command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockparse/pkg/buildinfo"
	"github.com/matzehuels/lockparse/pkg/cache"
	"github.com/matzehuels/lockparse/pkg/locate"
	"github.com/matzehuels/lockparse/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lockparse"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: Config{}.WithDefaults(),
	}
}

// SetLogLevel updates the logger's level. At debug level, parse and cache
// events are logged through the observability hooks as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "lockparse reads JavaScript lock files",
		Long: `lockparse detects and parses npm, Yarn and pnpm lock files into one
normalized document of packages and their dependency edges.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/lockparse/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the document cache")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := newCache(ctx, c.Config.Cache, c.noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache opens the cache backend named by cfg. Any backend is wrapped so
// hits and misses reach the observability hooks.
func newCache(ctx context.Context, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	var (
		store cache.Cache
		err   error
	)
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendMemory:
		store, err = cache.NewMemoryCache(cfg.MemoryEntries)
	case backendRedis:
		store, err = cache.NewRedisCache(ctx, cfg.RedisURL)
	default:
		dir := cfg.Dir
		if dir == "" {
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		store, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	return cache.Instrument(store), nil
}

// parseSource loads path (a lock file or a directory holding one) and runs
// it through the runner.
func parseSource(ctx context.Context, runner *pipeline.Runner, path, format string, refresh bool) (*pipeline.Result, *locate.Source, error) {
	src, err := locate.Resolve(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := runner.Parse(ctx, pipeline.Options{
		Text:    src.Text,
		Format:  format,
		Source:  src.Path,
		Refresh: refresh,
	})
	if err != nil {
		return nil, src, fmt.Errorf("%s: %w", src.Path, err)
	}
	return res, src, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/lockparse/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/lockparse/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
