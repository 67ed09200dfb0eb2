package lockfile

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

var npmPackageFields = withGeneric("resolved", "integrity")

// ParseNPM parses a package-lock.json or npm-shrinkwrap.json.
//
// Entries of the "packages" object become packages under their original
// path keys ("" for the root project, "node_modules/x" for installs).
// Fields other than version, resolved, integrity and the four dependency
// kinds (engines, license, bin, funding, cpu, os, dev, optional, ...) are
// kept in Package.Flags. Top-level fields other than lockfileVersion and
// packages (name, version, requires, the legacy dependencies tree) are kept
// in Document.RawMetadata.
func ParseNPM(text string) (*Document, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidJSON, err, "failed to parse JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidJSON, err, "failed to parse JSON")
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidSchema, "invalid npm lockfile: top level is not an object")
	}

	version := scalarString(data["lockfileVersion"])
	rawPackages, hasPackages := data["packages"]
	if version == "" && !hasPackages {
		return nil, errs.New(errs.ErrCodeInvalidSchema, "invalid npm lockfile: missing lockfileVersion or packages field")
	}
	if version == "" {
		return nil, errs.New(errs.ErrCodeInvalidSchema, "invalid npm lockfile: missing lockfileVersion field")
	}

	doc := newDocument(EcosystemNPM, version)
	doc.RawMetadata = extras(data, map[string]bool{"lockfileVersion": true, "packages": true})

	for key, v := range asMap(rawPackages) {
		entry := asMap(v)
		p := newPackage()
		p.Version = scalarString(entry["version"])
		p.Resolved = scalarString(entry["resolved"])
		p.Integrity = scalarString(entry["integrity"])
		fillDependencySets(p, entry)
		p.Flags = extras(entry, npmPackageFields)
		doc.Packages[key] = p
	}

	return doc, nil
}
