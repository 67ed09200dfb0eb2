package lockfile

import (
	"regexp"
	"strings"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

var yarnHeaderVersionRE = regexp.MustCompile(`# yarn lockfile v(\d+)`)

// classicState is the position of the yarn.lock state machine.
type classicState int

const (
	stateTop      classicState = iota // before the first entry
	statePackage                      // in an entry, no dependency block open
	stateDepBlock                     // in an entry, inside a dependency block
)

// Only these three blocks exist in v1; dev and prod edges are not told apart.
var classicDepHeaders = map[string]Kind{
	"dependencies":         KindDependencies,
	"optionalDependencies": KindOptionalDependencies,
	"peerDependencies":     KindPeerDependencies,
}

// ParseYarnClassic parses a Yarn 1 yarn.lock.
//
// The grammar is indentation based: entries start at column 0 ("key:"),
// fields and dependency block headers sit at two spaces, dependency edges at
// four. An entry key listing several ranges ("a@^1.0, a@^1.1") stays a single
// package key. Text from Yarn 2 or later fails with ErrCodeUnsupportedVersion.
func ParseYarnClassic(text string) (*Document, error) {
	if err := checkClassicHeader(text); err != nil {
		return nil, err
	}

	doc := newDocument(EcosystemYarn, "1")

	var (
		state  = stateTop
		active Kind
		cur    *Package
	)

	sc := newScanner(text)
	for sc.Scan() {
		ln := sc.Line()
		switch ln.kind {
		case lineEntry:
			cur = newPackage()
			doc.Packages[classicKey(ln.key)] = cur
			state = statePackage

		case lineHeader:
			if state == stateTop {
				continue
			}
			if k, ok := classicDepHeaders[ln.key]; ok {
				active, state = k, stateDepBlock
			} else {
				state = statePackage
			}

		case lineField:
			if state == stateTop {
				continue
			}
			state = statePackage
			switch ln.key {
			case "version":
				cur.Version = ln.value
			case "resolved":
				cur.Resolved = ln.value
			case "integrity":
				cur.Integrity = ln.value
			default:
				if cur.Flags == nil {
					cur.Flags = make(map[string]any)
				}
				cur.Flags[ln.key] = ln.value
			}

		case lineDependency:
			// Edges outside a dependency block are dropped.
			if state == stateDepBlock {
				cur.Set(active)[ln.key] = ln.value
			}
		}
	}

	return doc, nil
}

func checkClassicHeader(text string) error {
	for _, m := range yarnHeaderVersionRE.FindAllStringSubmatch(text, -1) {
		if m[1] != "1" {
			return errs.New(errs.ErrCodeUnsupportedVersion, "this parser only supports Yarn lockfile version 1 (found v%s)", m[1])
		}
	}
	if berryMetadataRE.MatchString(text) {
		return errs.New(errs.ErrCodeUnsupportedVersion, "this parser only supports Yarn lockfile version 1 (found a Yarn 2+ __metadata block)")
	}
	if !strings.Contains(text, yarnClassicHeader) {
		return errs.New(errs.ErrCodeInvalidSchema, "invalid Yarn lockfile: missing %q header", yarnClassicHeader)
	}
	return nil
}

// classicKey normalizes an entry key by unquoting each comma-separated
// specifier: `"@a/b@^1", "@a/b@^1.1"` becomes `@a/b@^1, @a/b@^1.1`. A key
// quoted as a whole (`"a@^1, a@^2"`) loses its outer quotes first.
func classicKey(raw string) string {
	if inner := unquote(raw); inner != raw && !strings.Contains(inner, `"`) {
		raw = inner
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = unquote(strings.TrimSpace(p))
	}
	return strings.Join(parts, ", ")
}
