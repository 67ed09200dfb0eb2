// Package render turns normalized lock-file documents into diagrams.
//
// The [nodelink] subpackage emits Graphviz DOT with one node per package key
// and one edge per declared dependency, and renders it to SVG in-process:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/lockparse/pkg/render/nodelink
package render
