package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lockparse/pkg/cache"
)

// Cache backends selectable in the config file or LOCKPARSE_CACHE_BACKEND.
const (
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
	backendNone   = "none"
)

// Environment overrides, applied after the config file.
const (
	envCacheBackend = "LOCKPARSE_CACHE_BACKEND"
	envRedisURL     = "LOCKPARSE_REDIS_URL"
	envAddr         = "LOCKPARSE_ADDR"
	envConcurrency  = "LOCKPARSE_SCAN_CONCURRENCY"
)

const (
	defaultAddr         = ":8080"
	defaultMaxBodyBytes = 16 << 20
	defaultConcurrency  = 8
)

// Config is the on-disk configuration, read from config.toml.
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":9000"
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Scan   ScanConfig   `toml:"scan"`
}

// CacheConfig selects and configures the document cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisURL      string `toml:"redis_url"`
	MemoryEntries int    `toml:"memory_entries"`
}

// ServerConfig configures `lockparse serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// ScanConfig configures `lockparse scan`.
type ScanConfig struct {
	Concurrency int `toml:"concurrency"`
}

// WithDefaults returns a copy of c with zero fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.Cache.Backend == "" {
		c.Cache.Backend = backendFile
	}
	if c.Cache.MemoryEntries <= 0 {
		c.Cache.MemoryEntries = cache.DefaultMemoryEntries
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.Scan.Concurrency <= 0 {
		c.Scan.Concurrency = defaultConcurrency
	}
	return c
}

// Validate checks values that defaults cannot repair.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case backendFile, backendMemory, backendNone:
	case backendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New("cache backend redis requires redis_url")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (must be one of: file, memory, redis, none)", c.Cache.Backend)
	}
	return nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing default file is not an error; a missing explicit
// one is. Environment overrides and defaults are applied on top.
func loadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LOCKPARSE_* variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv(envCacheBackend); v != "" {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(envRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(envAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(envConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envConcurrency, err)
		}
		c.Scan.Concurrency = n
	}
	return nil
}
