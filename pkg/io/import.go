package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lockparse/pkg/lockfile"
)

// ReadJSON decodes a document written by [WriteJSON] or [MarshalJSON].
// Numbers in flags and metadata are kept as json.Number, the same
// representation the npm parser produces. Missing dependency maps are
// filled in with empty ones.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*lockfile.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc lockfile.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Ecosystem == "" {
		return nil, fmt.Errorf("decode: missing ecosystem field")
	}
	doc.Normalize()
	return &doc, nil
}

// UnmarshalJSON is [ReadJSON] over a byte slice.
func UnmarshalJSON(data []byte) (*lockfile.Document, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a JSON document from the file at path.
func ImportJSON(path string) (*lockfile.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
