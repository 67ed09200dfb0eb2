package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/lockparse/pkg/errors"
	"github.com/matzehuels/lockparse/pkg/lockfile"
)

// Output encodings accepted by [Write].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateFormat checks that an output encoding is supported.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	}
	return errs.New(errs.ErrCodeInvalidFormat, "invalid output format: %q (must be one of: json, yaml)", format)
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(doc *lockfile.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON encodes doc as compact JSON, the form kept in caches.
func MarshalJSON(doc *lockfile.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteYAML encodes doc as YAML.
func WriteYAML(doc *lockfile.Document, w io.Writer) error {
	out := yamlDocument{
		Ecosystem:        doc.Ecosystem,
		EcosystemVersion: doc.EcosystemVersion,
		RawMetadata:      plainMap(doc.RawMetadata),
		Packages:         make(map[string]yamlPackage, len(doc.Packages)),
	}
	for key, p := range doc.Packages {
		out.Packages[key] = yamlPackage{
			Version:        p.Version,
			Resolved:       p.Resolved,
			Integrity:      p.Integrity,
			DependencySets: p.DependencySets,
			Flags:          plainMap(p.Flags),
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Write encodes doc in the named format.
func Write(doc *lockfile.Document, w io.Writer, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	if format == FormatYAML {
		return WriteYAML(doc, w)
	}
	return WriteJSON(doc, w)
}

// ExportFile writes doc to the file at path in the named format.
func ExportFile(doc *lockfile.Document, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(doc, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// yamlDocument mirrors lockfile.Document with flags and metadata converted
// to plain values, so JSON numbers are not rendered as quoted strings.
type yamlDocument struct {
	Ecosystem        lockfile.Ecosystem     `yaml:"ecosystem"`
	EcosystemVersion string                 `yaml:"ecosystemVersion"`
	RawMetadata      map[string]any         `yaml:"rawMetadata,omitempty"`
	Packages         map[string]yamlPackage `yaml:"packages"`
}

type yamlPackage struct {
	Version                 string         `yaml:"version,omitempty"`
	Resolved                string         `yaml:"resolved,omitempty"`
	Integrity               string         `yaml:"integrity,omitempty"`
	lockfile.DependencySets `yaml:",inline"`
	Flags                   map[string]any `yaml:"flags,omitempty"`
}

func plainMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plain(v)
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		return plainMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	}
	return v
}
