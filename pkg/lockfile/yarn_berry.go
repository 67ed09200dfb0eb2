package lockfile

import (
	"strconv"
	"strings"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

const berryMetadataKey = "__metadata"

var berryPackageFields = withGeneric("resolution", "checksum")

// BerryGeneration maps a Yarn Berry __metadata.version (the lockfile schema)
// to the Yarn release line that writes it: schema 4 and below is Yarn 2,
// 5-6 is Yarn 3 and anything newer is Yarn 4.
func BerryGeneration(schema int) int {
	switch {
	case schema <= 4:
		return 2
	case schema <= 6:
		return 3
	default:
		return 4
	}
}

// ParseYarnBerry parses a Yarn 2+ yarn.lock, which is YAML.
//
// Every top-level key except __metadata is a package. resolution becomes
// Package.Resolved and checksum becomes Package.Integrity; languageName,
// linkType, bin, conditions and other fields are kept in Package.Flags.
// __metadata itself is kept as Document.RawMetadata. EcosystemVersion is the
// Yarn generation derived with [BerryGeneration].
func ParseYarnBerry(text string) (*Document, error) {
	v, err := decodeYAMLStrict(text)
	if err != nil {
		return nil, err
	}
	data := asMap(v)
	meta, ok := data[berryMetadataKey]
	if !ok || meta == nil {
		return nil, errs.New(errs.ErrCodeInvalidSchema, "invalid Yarn lockfile: missing __metadata field")
	}
	metadata := asMap(meta)

	schema, ok := metadataSchema(metadata["version"])
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidSchema, "invalid Yarn lockfile: __metadata.version is missing or not a number")
	}

	doc := newDocument(EcosystemYarn, strconv.Itoa(BerryGeneration(schema)))
	doc.RawMetadata = metadata

	for key, raw := range data {
		if key == berryMetadataKey {
			continue
		}
		entry := asMap(raw)
		p := newPackage()
		p.Version = scalarString(entry["version"])
		p.Resolved = scalarString(entry["resolution"])
		p.Integrity = scalarString(entry["checksum"])
		fillDependencySets(p, entry)
		p.Flags = extras(entry, berryPackageFields)
		doc.Packages[key] = p
	}

	return doc, nil
}

func metadataSchema(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}
