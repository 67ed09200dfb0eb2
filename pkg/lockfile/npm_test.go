package lockfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

func TestParseNPMMinimal(t *testing.T) {
	text := `{"lockfileVersion":3,"packages":{"":{"dependencies":{"express":"4.18.2"}}, "node_modules/express":{"version":"4.18.2","resolved":"https://registry.npmjs.org/express/-/express-4.18.2.tgz","integrity":"sha512-abc"}}}`

	doc, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, EcosystemNPM, doc.Ecosystem)
	assert.Equal(t, "3", doc.EcosystemVersion)
	require.Equal(t, 2, doc.Len())

	root, ok := doc.Package("")
	require.True(t, ok)
	assert.Equal(t, "4.18.2", root.Dependencies["express"])

	express, ok := doc.Package("node_modules/express")
	require.True(t, ok)
	assert.Equal(t, "4.18.2", express.Version)
	assert.Equal(t, "https://registry.npmjs.org/express/-/express-4.18.2.tgz", express.Resolved)
	assert.Equal(t, "sha512-abc", express.Integrity)
	assert.Empty(t, express.Dependencies)
	assert.Nil(t, express.Flags)

	requireComplete(t, doc)
}

func TestParseNPMFixture(t *testing.T) {
	doc, err := ParseNPM(readFixture(t, "npm/package-lock.json"))
	require.NoError(t, err)
	requireComplete(t, doc)

	assert.Equal(t, "3", doc.EcosystemVersion)
	assert.Equal(t, "demo-app", doc.RawMetadata["name"])
	assert.Equal(t, true, doc.RawMetadata["requires"])
	assert.NotContains(t, doc.RawMetadata, "packages")
	assert.NotContains(t, doc.RawMetadata, "lockfileVersion")

	assert.Equal(t, []string{
		"",
		"node_modules/body-parser",
		"node_modules/bytes",
		"node_modules/content-type",
		"node_modules/fsevents",
		"node_modules/lodash",
		"node_modules/typescript",
	}, doc.Keys())

	root := doc.Packages[""]
	assert.Equal(t, map[string]string{"body-parser": "^1.20.2", "lodash": "^4.17.21"}, root.Dependencies)
	assert.Equal(t, map[string]string{"typescript": "^5.4.0"}, root.DevDependencies)
	assert.Equal(t, "demo-app", root.Flags["name"])

	bp := doc.Packages["node_modules/body-parser"]
	assert.Equal(t, "1.20.2", bp.Version)
	assert.Equal(t, map[string]string{"bytes": "3.1.2", "content-type": "~1.0.5"}, bp.Dependencies)
	assert.Equal(t, "MIT", bp.Flags["license"])
	assert.Contains(t, bp.Flags, "engines")

	fsevents := doc.Packages["node_modules/fsevents"]
	assert.Equal(t, true, fsevents.Flags["optional"])
	assert.Equal(t, true, fsevents.Flags["dev"])
	assert.Equal(t, []any{"darwin"}, fsevents.Flags["os"])
	assert.NotContains(t, fsevents.Flags, "version")
	assert.NotContains(t, fsevents.Flags, "resolved")
	assert.NotContains(t, fsevents.Flags, "integrity")

	assert.Equal(t, 5, doc.EdgeCount())
}

func TestParseNPMErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code errs.Code
	}{
		{"truncated", `{"lockfileVersion":3,`, errs.ErrCodeInvalidJSON},
		{"not json", `lockfileVersion: 3`, errs.ErrCodeInvalidJSON},
		{"trailing data", `{"lockfileVersion":3,"packages":{}} {}`, errs.ErrCodeInvalidJSON},
		{"empty", ``, errs.ErrCodeInvalidJSON},
		{"missing both fields", `{"name":"x"}`, errs.ErrCodeInvalidSchema},
		{"missing version", `{"packages":{}}`, errs.ErrCodeInvalidSchema},
		{"array top level", `[1,2,3]`, errs.ErrCodeInvalidSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseNPM(tt.text)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Equal(t, tt.code, errs.GetCode(err))
		})
	}
}

func TestParseNPMKeepsDiagnostic(t *testing.T) {
	_, err := ParseNPM(`{"lockfileVersion":3,"packages":{]`)
	require.Error(t, err)
	assert.True(t, errs.IsSyntax(err))
	assert.Contains(t, err.Error(), "invalid character")
}

func TestParseNPMLegacyWithoutPackages(t *testing.T) {
	// lockfileVersion 1 files have only the nested dependencies tree.
	doc, err := ParseNPM(`{"name":"old","lockfileVersion":1,"dependencies":{"a":{"version":"1.0.0"}}}`)
	require.NoError(t, err)
	assert.Equal(t, "1", doc.EcosystemVersion)
	assert.Zero(t, doc.Len())
	assert.Contains(t, doc.RawMetadata, "dependencies")
}

func TestParseNPMMalformedOptionalFields(t *testing.T) {
	text := `{"lockfileVersion":3,"packages":{
		"node_modules/a":{"version":1,"dependencies":"nope","peerDependencies":{"b":{"x":1},"c":"^2"}},
		"node_modules/b":"not-an-object"
	}}`
	doc, err := ParseNPM(text)
	require.NoError(t, err)
	requireComplete(t, doc)

	a := doc.Packages["node_modules/a"]
	assert.Equal(t, "1", a.Version)
	assert.Empty(t, a.Dependencies)
	assert.Equal(t, map[string]string{"c": "^2"}, a.PeerDependencies)

	b := doc.Packages["node_modules/b"]
	assert.Empty(t, b.Version)
}
