package pipeline

import (
	"context"
	"time"

	errs "github.com/matzehuels/lockparse/pkg/errors"
	"github.com/matzehuels/lockparse/pkg/lockfile"
	"github.com/matzehuels/lockparse/pkg/observability"
)

// Detect runs format detection and reports it to the parse hooks.
func Detect(ctx context.Context, text string) lockfile.Format {
	start := time.Now()
	f := lockfile.Detect(text)
	observability.Parse().OnDetect(ctx, f.String(), time.Since(start))
	return f
}

// Parse detects (unless opts names a format) and parses opts.Text without
// caching. Options must have passed ValidateForParse.
func Parse(ctx context.Context, opts Options) (*lockfile.Document, lockfile.Format, error) {
	f := opts.format
	if opts.IsAuto() {
		f = Detect(ctx, opts.Text)
		if f == lockfile.FormatUnknown {
			return nil, f, errs.New(errs.ErrCodeDetection, "unable to determine lock-file format")
		}
	}

	hooks := observability.Parse()
	hooks.OnParseStart(ctx, f.String(), len(opts.Text))
	start := time.Now()
	doc, err := lockfile.ParseAs(f, opts.Text)
	packages := 0
	if doc != nil {
		packages = doc.Len()
	}
	hooks.OnParseComplete(ctx, f.String(), packages, time.Since(start), err)
	if err != nil {
		return nil, f, err
	}
	return doc, f, nil
}
