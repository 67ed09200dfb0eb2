package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// keyVersion is bumped whenever the cached document shape changes.
const keyVersion = "v1"

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey identifies the parse result of text in the given format.
	// Use "auto" when the format is detected.
	DocumentKey(format, text string) string
	// ArtifactKey identifies an artifact rendered from a document.
	ArtifactKey(docKey string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string   `json:"format"`
	Kinds    []string `json:"kinds"`
	Detailed bool     `json:"detailed"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey returns "doc:v1:<format>:<fingerprint>".
func (DefaultKeyer) DocumentKey(format, text string) string {
	return fmt.Sprintf("doc:%s:%s:%s", keyVersion, format, Fingerprint(text))
}

// ArtifactKey hashes the options so kind order does not matter.
func (DefaultKeyer) ArtifactKey(docKey string, opts ArtifactKeyOpts) string {
	kinds := slices.Clone(opts.Kinds)
	slices.Sort(kinds)
	return hashKey("artifact:"+keyVersion, docKey, opts.Format, kinds, opts.Detailed)
}

// Fingerprint returns a fast non-cryptographic digest of text. The length
// is included so that a 64-bit collision also needs equal sizes.
func Fingerprint(text string) string {
	return fmt.Sprintf("%016x-%x", xxhash.Sum64String(text), len(text))
}

// hashKey returns "<prefix>:<sha256 of the JSON-encoded parts>".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. FileCache names entries with it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
