// Package nodelink renders lock-file dependency edges as node-link diagrams.
//
// # Overview
//
// Each package key in a [lockfile.Document] becomes a box. Each declared
// dependency becomes an arrow to a "name@range" node. Ranges are not
// resolved against package keys, because key shapes differ per ecosystem
// ("node_modules/x", "x@^1.0", "/x/1.0.0") and resolution is out of scope
// for the lockfile package.
//
// # Usage
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Kinds: which dependency sets to draw (default: dependencies only)
//   - Detailed: add the resolved version to package labels
//
// Edge style encodes the kind: solid for dependencies, dashed for
// devDependencies, dotted for optionalDependencies and grey for
// peerDependencies.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [lockfile.Document]: github.com/matzehuels/lockparse/pkg/lockfile.Document
package nodelink
