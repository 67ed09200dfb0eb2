package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lockparse/pkg/lockfile"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Kinds selects the dependency sets drawn as edges. Empty means
	// dependencies only.
	Kinds []lockfile.Kind

	// Detailed adds the resolved version to package labels.
	Detailed bool
}

func (o Options) kinds() []lockfile.Kind {
	if len(o.Kinds) == 0 {
		return []lockfile.Kind{lockfile.KindDependencies}
	}
	return o.Kinds
}

var edgeStyle = map[lockfile.Kind]string{
	lockfile.KindDependencies:         "",
	lockfile.KindDevDependencies:      `style=dashed`,
	lockfile.KindOptionalDependencies: `style=dotted`,
	lockfile.KindPeerDependencies:     `color=grey50, fontcolor=grey50`,
}

// ToDOT converts the dependency edges of doc to Graphviz DOT. Packages and
// edges are emitted in sorted order so the output is stable.
func ToDOT(doc *lockfile.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	keys := doc.Keys()
	targets := map[string]bool{}
	for _, key := range keys {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeID(key), fmtLabel(key, doc.Packages[key], opts.Detailed))
	}

	buf.WriteString("\n")
	for _, key := range keys {
		p := doc.Packages[key]
		for _, k := range opts.kinds() {
			deps := p.Set(k)
			for _, name := range slices.Sorted(maps.Keys(deps)) {
				target := name + "@" + deps[name]
				targets[target] = true
				if style := edgeStyle[k]; style != "" {
					fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(key), target, style)
				} else {
					fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(key), target)
				}
			}
		}
	}

	if len(targets) > 0 {
		buf.WriteString("\n")
		for _, t := range slices.Sorted(maps.Keys(targets)) {
			if _, isKey := doc.Packages[t]; isKey {
				continue
			}
			fmt.Fprintf(&buf, "  %q [style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", t)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID names the root project of npm and pnpm documents, whose key is "".
func nodeID(key string) string {
	if key == "" {
		return "(root)"
	}
	return key
}

func fmtLabel(key string, p *lockfile.Package, detailed bool) string {
	label := nodeID(key)
	if detailed && p != nil && p.Version != "" {
		label += "\n" + p.Version
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container instead of using Graphviz's point-based size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
