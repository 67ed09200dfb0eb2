// Package pkg provides the libraries behind lockparse, a reader for
// JavaScript lock files.
//
// # Overview
//
// npm, Yarn Classic, Yarn Berry and pnpm each record the installed package
// set in their own lock-file grammar. lockparse detects which one a text
// uses and converts it into a single [lockfile.Document]: a map from the
// ecosystem's own package keys to version, source URL, integrity hash and
// four dependency sets.
//
// # Architecture
//
// The typical data flow:
//
//	directory or file
//	         ↓
//	    [locate] (pick package-lock.json, yarn.lock or pnpm-lock.yaml)
//	         ↓
//	    [lockfile] (detect format, parse, normalize)
//	         ↓
//	    [pipeline] (validation, caching, parse hooks)
//	         ↓
//	    [io] JSON/YAML   or   [render/nodelink] DOT/SVG
//
// # Quick Start
//
//	doc, src, err := locate.Parse(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(src.Path, doc.Ecosystem, doc.Len())
//
// # Main Packages
//
// [lockfile] - Format detection and the four parsers. Pure functions over
// text; safe for concurrent use.
//
// [locate] - Finds and reads lock files on disk. The only filesystem code.
//
// [errors] - Coded errors (DETECTION_FAILED, INVALID_JSON, INVALID_YAML,
// INVALID_SCHEMA, UNSUPPORTED_VERSION, LOCKFILE_NOT_FOUND, ...) shared by
// every package.
//
// [pipeline] - The parse service used by the CLI and the HTTP API: input
// validation, cache lookup keyed by content fingerprint, observability
// hooks and graph rendering.
//
// [cache] - Cache interface with file, in-memory LRU, Redis and null
// backends, plus the key scheme.
//
// [io] - JSON and YAML encoding of documents.
//
// [render/nodelink] - Graphviz DOT and SVG output of declared edges.
//
// [observability] - Hook registry for parse, cache and HTTP events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./...
//	go test -run Example ./pkg/lockfile
//
// [lockfile]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/lockfile
// [lockfile.Document]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/lockfile#Document
// [locate]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/locate
// [errors]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/render/nodelink
// [observability]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/lockparse/pkg/buildinfo
package pkg
