// Package lockfile normalizes JavaScript lock files into one model.
//
// # Overview
//
// npm, Yarn Classic, Yarn Berry and pnpm record the same facts (resolved
// version, source URL, content hash, dependency edges) in four incompatible
// grammars. This package detects which grammar a text uses and converts it
// into a [Document]:
//
//   - package-lock.json (JSON): [ParseNPM]
//   - yarn.lock v1 (indentation based line grammar): [ParseYarnClassic]
//   - yarn.lock v2+ (YAML): [ParseYarnBerry]
//   - pnpm-lock.yaml (YAML, legacy and split layouts): [ParsePNPM]
//
// # Parsing
//
// Use [Parse] when the format is not known:
//
//	doc, err := lockfile.Parse(text)
//	if err != nil {
//	    return err
//	}
//	for _, key := range doc.Keys() {
//	    pkg := doc.Packages[key]
//	    fmt.Println(key, pkg.Version, len(pkg.Dependencies))
//	}
//
// [Detect] runs the format probes on their own, and [ParseAs] skips them.
//
// # Model
//
// Package keys are kept exactly as the source wrote them; nothing is
// remapped between ecosystems. Every [Package] carries all four
// [DependencySets] maps, empty when the source had none, so callers never
// check for nil. Fields without a common meaning are passed through
// untouched in [Package.Flags] and [Document.RawMetadata].
//
// # Errors
//
// Failures carry a code from [github.com/matzehuels/lockparse/pkg/errors]:
// DETECTION_FAILED from [Parse] for unrecognized text, INVALID_JSON or
// INVALID_YAML for malformed text, INVALID_SCHEMA when marker fields are
// missing and UNSUPPORTED_VERSION for Yarn 2+ text given to the classic
// parser. A failed parse never returns a partial document.
//
// # Concurrency
//
// Parsing keeps no state between calls and touches no shared data, so any
// function here may be called from many goroutines at once.
//
// This package performs no I/O; see [github.com/matzehuels/lockparse/pkg/locate]
// for finding and reading lock files on disk.
package lockfile
