package lockfile

import (
	"regexp"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

var (
	// "lodash@4.17.21", "/@scope/pkg@1.2.3-beta.1", "/x@1.0.0+build.5"
	pnpmAtVersionRE = regexp.MustCompile(`(?i)@(\d[\d.]*(?:-[a-z0-9.-]+)?(?:\+[a-z0-9.-]+)?)$`)
	// "/lodash/4.17.21"; the segment must start with a digit.
	pnpmSlashVersionRE = regexp.MustCompile(`/(\d[^/@]*)$`)
)

var pnpmPackageFields = withGeneric("resolution")

// ParsePNPM parses a pnpm-lock.yaml.
//
// Both layouts are accepted. Before lockfile schema 9 the packages section
// holds metadata and dependency edges together; from schema 9 on, edges live
// in a parallel snapshots section with the same keys. Dependency sets are
// taken from snapshots first and fall back to packages, so both layouts
// normalize to the same entries.
//
// Repeated mapping keys are not an error; the last occurrence wins.
func ParsePNPM(text string) (*Document, error) {
	v, err := decodeYAMLLenient(text)
	if err != nil {
		return nil, err
	}
	data := asMap(v)
	version := scalarString(data["lockfileVersion"])
	if version == "" {
		return nil, errs.New(errs.ErrCodeInvalidSchema, "invalid pnpm lockfile: missing lockfileVersion field")
	}

	doc := newDocument(EcosystemPNPM, version)
	doc.RawMetadata = extras(data, map[string]bool{"lockfileVersion": true, "packages": true})

	snapshots := asMap(data["snapshots"])
	for key, raw := range asMap(data["packages"]) {
		entry := asMap(raw)
		snap := asMap(snapshots[key])

		p := newPackage()
		p.Version = scalarString(entry["version"])
		if p.Version == "" {
			p.Version = PNPMKeyVersion(key)
		}
		if res := asMap(entry["resolution"]); res != nil {
			p.Resolved = scalarString(res["tarball"])
			p.Integrity = scalarString(res["integrity"])
		}
		for _, k := range Kinds() {
			field := k.String()
			src := entry[field]
			if s, ok := snap[field]; ok {
				src = s
			}
			p.setKind(k, stringMap(src))
		}
		p.Flags = mergeExtras(extras(entry, pnpmPackageFields), extras(snap, genericFields))
		doc.Packages[key] = p
	}

	return doc, nil
}

// PNPMKeyVersion derives a version from a pnpm package key: first a trailing
// "@<version>" (pre-release and build suffixes included), then a trailing
// "/<version>" segment that starts with a digit. It returns "" when neither
// matches.
func PNPMKeyVersion(key string) string {
	if m := pnpmAtVersionRE.FindStringSubmatch(key); m != nil {
		return m[1]
	}
	if m := pnpmSlashVersionRE.FindStringSubmatch(key); m != nil {
		return m[1]
	}
	return ""
}
