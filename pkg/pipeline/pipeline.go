// Package pipeline runs lock-file parsing and rendering for lockparse's
// entry points.
//
// The CLI and the HTTP API both go through a [Runner], so input validation,
// caching and observability behave the same everywhere.
//
// # Stages
//
//  1. Detect: pick the lock-file format (skipped when Options.Format names one)
//  2. Parse: normalize the text into a [lockfile.Document]
//  3. Render: optionally draw the dependency edges as DOT or SVG
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Parse(ctx, pipeline.Options{Text: text})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Format, result.Stats.Packages)
//
//	artifacts, err := runner.Render(ctx, result, pipeline.Options{GraphFormats: []string{"svg"}})
//
// Parse errors are returned unchanged from the lockfile package, so callers
// can branch on their codes.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/lockparse/pkg/errors"
	"github.com/matzehuels/lockparse/pkg/lockfile"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// FormatAuto requests format detection.
const FormatAuto = "auto"

// Graph output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidGraphFormats is the set of supported graph output formats.
var ValidGraphFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// DefaultKinds are the dependency sets drawn when none are requested.
var DefaultKinds = []string{"dependencies"}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Text is the lock-file content.
	Text string `json:"-"`

	// Format is a lock-file format name accepted by lockfile.ParseFormat,
	// or "" / "auto" to detect it.
	Format string `json:"format,omitempty"`

	// Source names where Text came from, for logs only.
	Source string `json:"source,omitempty"`

	// MaxInputSize bounds Text in bytes. Zero means errs.DefaultMaxInputSize.
	MaxInputSize int `json:"-"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	GraphFormats []string `json:"graph_formats,omitempty"`
	Kinds        []string `json:"kinds,omitempty"`
	Detailed     bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	format lockfile.Format
	kinds  []lockfile.Kind
}

// Result is the outcome of a parse.
type Result struct {
	// Document is the normalized lock file.
	Document *lockfile.Document

	// Format is the detected or requested format.
	Format lockfile.Format

	// CacheKey identifies the document in the cache; render artifacts are
	// keyed from it.
	CacheKey string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains execution statistics.
type Stats struct {
	Packages  int
	Edges     int
	ParseTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ParseHit  bool // document came from cache
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateGraphFormat checks that a graph format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid graph format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// ResolveKinds maps dependency-set names to kinds. Duplicates are dropped.
func ResolveKinds(names []string) ([]lockfile.Kind, error) {
	var out []lockfile.Kind
	for _, name := range names {
		k, ok := lockfile.KindFromName(name)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "unknown dependency kind: %q (must be one of: dependencies, devDependencies, optionalDependencies, peerDependencies)", name)
		}
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForParse checks the input text and resolves the requested format.
func (o *Options) ValidateForParse() error {
	if err := errs.ValidateLockfileText(o.Text, o.MaxInputSize); err != nil {
		return err
	}

	o.format = lockfile.FormatUnknown
	if !o.IsAuto() {
		f, err := lockfile.ParseFormat(o.Format)
		if err != nil {
			return err
		}
		o.format = f
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender checks graph formats and dependency kinds, applying
// defaults.
func (o *Options) ValidateForRender() error {
	if len(o.GraphFormats) == 0 {
		o.GraphFormats = []string{FormatDOT}
	}
	for _, f := range o.GraphFormats {
		if err := ValidateGraphFormat(f); err != nil {
			return err
		}
	}
	if len(o.Kinds) == 0 {
		o.Kinds = DefaultKinds
	}
	kinds, err := ResolveKinds(o.Kinds)
	if err != nil {
		return err
	}
	o.kinds = kinds
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// IsAuto reports whether the format is to be detected.
func (o *Options) IsAuto() bool {
	return o.Format == "" || o.Format == FormatAuto
}

// formatKey is the format segment of the document cache key.
func (o *Options) formatKey() string {
	if o.IsAuto() {
		return FormatAuto
	}
	return o.format.String()
}
