package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/lockparse/pkg/lockfile"
	"github.com/matzehuels/lockparse/pkg/render/nodelink"
)

// Render draws the dependency edges of doc in each requested graph format.
// Options must have passed ValidateForRender.
func Render(ctx context.Context, doc *lockfile.Document, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(doc, nodelink.Options{
		Kinds:    opts.kinds,
		Detailed: opts.Detailed,
	})

	artifacts := make(map[string][]byte, len(opts.GraphFormats))
	for _, format := range opts.GraphFormats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatSVG:
			svg, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[format] = svg
		default:
			return nil, fmt.Errorf("unsupported graph format: %s", format)
		}
	}
	return artifacts, nil
}
