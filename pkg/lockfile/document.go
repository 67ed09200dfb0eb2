package lockfile

import (
	"maps"
	"slices"
)

// Ecosystem identifies the package-manager family that produced a lock file.
type Ecosystem string

const (
	EcosystemNPM  Ecosystem = "npm"
	EcosystemYarn Ecosystem = "yarn"
	EcosystemPNPM Ecosystem = "pnpm"
)

// Document is the normalized form of a lock file.
//
// A Document is built fresh by every parse call and is never modified by this
// package afterwards; the caller owns it.
type Document struct {
	Ecosystem Ecosystem `json:"ecosystem" yaml:"ecosystem"`

	// EcosystemVersion is the ecosystem's own version indicator: npm's
	// lockfileVersion, the Yarn generation (1-4) or pnpm's lockfileVersion.
	// It is never empty on a successfully parsed document.
	EcosystemVersion string `json:"ecosystemVersion" yaml:"ecosystemVersion"`

	// RawMetadata holds format-specific top-level fields passed through
	// untouched (project name, settings, importers, __metadata, ...).
	RawMetadata map[string]any `json:"rawMetadata,omitempty" yaml:"rawMetadata,omitempty"`

	// Packages maps the format's own package key to its entry. Key shape is
	// whatever the source used: "node_modules/x", "x@^1.0, x@^1.1", "/x/1.0.0".
	Packages map[string]*Package `json:"packages" yaml:"packages"`
}

// Package is one resolved package instance.
type Package struct {
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	Resolved  string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Integrity string `json:"integrity,omitempty" yaml:"integrity,omitempty"`

	DependencySets `yaml:",inline"`

	// Flags preserves ecosystem-specific fields (dev, optional, engines, os,
	// cpu, bin, ...) without interpreting them.
	Flags map[string]any `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// DependencySets holds a package's declared edges by kind. Values are the
// declared version or range, not a resolved version. None of the maps is
// ever nil on a parsed document.
type DependencySets struct {
	Dependencies         map[string]string `json:"dependencies" yaml:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies" yaml:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies" yaml:"optionalDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies" yaml:"peerDependencies"`
}

// Kind names one of the four dependency sets.
type Kind int

const (
	KindDependencies Kind = iota
	KindDevDependencies
	KindOptionalDependencies
	KindPeerDependencies
)

var kindNames = [...]string{
	KindDependencies:         "dependencies",
	KindDevDependencies:      "devDependencies",
	KindOptionalDependencies: "optionalDependencies",
	KindPeerDependencies:     "peerDependencies",
}

// Kinds lists every dependency kind in canonical order.
func Kinds() []Kind {
	return []Kind{KindDependencies, KindDevDependencies, KindOptionalDependencies, KindPeerDependencies}
}

// String returns the field name used by npm, Yarn and pnpm for the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// KindFromName maps a field name such as "peerDependencies" to its Kind.
func KindFromName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Set returns the map for kind k, or nil for an unknown kind.
func (s *DependencySets) Set(k Kind) map[string]string {
	switch k {
	case KindDependencies:
		return s.Dependencies
	case KindDevDependencies:
		return s.DevDependencies
	case KindOptionalDependencies:
		return s.OptionalDependencies
	case KindPeerDependencies:
		return s.PeerDependencies
	}
	return nil
}

func (s *DependencySets) setKind(k Kind, m map[string]string) {
	if m == nil {
		m = map[string]string{}
	}
	switch k {
	case KindDependencies:
		s.Dependencies = m
	case KindDevDependencies:
		s.DevDependencies = m
	case KindOptionalDependencies:
		s.OptionalDependencies = m
	case KindPeerDependencies:
		s.PeerDependencies = m
	}
}

// Len returns the total number of edges across all four sets.
func (s *DependencySets) Len() int {
	return len(s.Dependencies) + len(s.DevDependencies) + len(s.OptionalDependencies) + len(s.PeerDependencies)
}

func newPackage() *Package {
	return &Package{
		DependencySets: DependencySets{
			Dependencies:         map[string]string{},
			DevDependencies:      map[string]string{},
			OptionalDependencies: map[string]string{},
			PeerDependencies:     map[string]string{},
		},
	}
}

func newDocument(eco Ecosystem, version string) *Document {
	return &Document{
		Ecosystem:        eco,
		EcosystemVersion: version,
		Packages:         make(map[string]*Package),
	}
}

// Package returns the entry for key.
func (d *Document) Package(key string) (*Package, bool) {
	p, ok := d.Packages[key]
	return p, ok
}

// Keys returns the package keys in sorted order.
func (d *Document) Keys() []string {
	return slices.Sorted(maps.Keys(d.Packages))
}

// Len returns the number of package entries.
func (d *Document) Len() int {
	return len(d.Packages)
}

// EdgeCount returns the number of declared dependency edges over all packages.
func (d *Document) EdgeCount() int {
	n := 0
	for _, p := range d.Packages {
		n += p.Len()
	}
	return n
}

// Normalize replaces nil dependency maps with empty ones. Parsers never
// produce nil maps; this is for documents decoded from JSON or YAML
// produced elsewhere.
func (d *Document) Normalize() {
	if d.Packages == nil {
		d.Packages = make(map[string]*Package)
	}
	for key, p := range d.Packages {
		if p == nil {
			p = newPackage()
			d.Packages[key] = p
		}
		for _, k := range Kinds() {
			if p.Set(k) == nil {
				p.setKind(k, nil)
			}
		}
	}
}
