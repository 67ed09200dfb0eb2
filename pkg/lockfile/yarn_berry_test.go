package lockfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

func TestBerryGeneration(t *testing.T) {
	tests := []struct {
		schema int
		want   int
	}{
		{1, 2},
		{4, 2},
		{5, 3},
		{6, 3},
		{7, 4},
		{8, 4},
		{10, 4},
	}
	for _, tt := range tests {
		if got := BerryGeneration(tt.schema); got != tt.want {
			t.Errorf("BerryGeneration(%d) = %d, want %d", tt.schema, got, tt.want)
		}
	}
}

func TestParseYarnBerryFixture(t *testing.T) {
	doc, err := ParseYarnBerry(readFixture(t, "yarn-v4/yarn.lock"))
	require.NoError(t, err)
	requireComplete(t, doc)

	assert.Equal(t, EcosystemYarn, doc.Ecosystem)
	assert.Equal(t, "4", doc.EcosystemVersion)
	assert.Equal(t, 8, doc.RawMetadata["version"])
	assert.Equal(t, "10c0", doc.RawMetadata["cacheKey"])
	assert.Equal(t, 7, doc.Len())
	_, hasMeta := doc.Package("__metadata")
	assert.False(t, hasMeta)

	bp := doc.Packages["body-parser@npm:^1.20.2"]
	require.NotNil(t, bp)
	assert.Equal(t, "1.20.2", bp.Version)
	assert.Equal(t, "body-parser@npm:1.20.2", bp.Resolved)
	assert.Contains(t, bp.Integrity, "10c0/06f1438f")
	assert.Equal(t, map[string]string{"bytes": "npm:3.1.2", "content-type": "npm:~1.0.5"}, bp.Dependencies)
	assert.Equal(t, "node", bp.Flags["languageName"])
	assert.Equal(t, "hard", bp.Flags["linkType"])
	assert.NotContains(t, bp.Flags, "resolution")
	assert.NotContains(t, bp.Flags, "checksum")

	ws := doc.Packages["demo-app@workspace:."]
	require.NotNil(t, ws)
	assert.Equal(t, "0.0.0-use.local", ws.Version)
	assert.Empty(t, ws.Integrity)
	assert.Equal(t, "soft", ws.Flags["linkType"])

	fsevents := doc.Packages["fsevents@npm:~2.3.2"]
	require.NotNil(t, fsevents)
	assert.Equal(t, "os=darwin", fsevents.Flags["conditions"])

	ts := doc.Packages["typescript@npm:^5.4.0"]
	require.NotNil(t, ts)
	assert.Equal(t, map[string]any{"tsc": "bin/tsc", "tsserver": "bin/tsserver"}, ts.Flags["bin"])
}

func TestParseYarnBerryGenerations(t *testing.T) {
	tests := []struct {
		meta string
		want string
	}{
		{"__metadata:\n  version: 4\n", "2"},
		{"__metadata:\n  version: 6\n  cacheKey: 8\n", "3"},
		{"__metadata:\n  version: 8\n", "4"},
		{"__metadata:\n  version: \"6\"\n", "3"},
	}
	for _, tt := range tests {
		doc, err := ParseYarnBerry(tt.meta)
		require.NoError(t, err, tt.meta)
		assert.Equal(t, tt.want, doc.EcosystemVersion, tt.meta)
		assert.Zero(t, doc.Len())
	}
}

func TestParseYarnBerryErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code errs.Code
	}{
		{"bad yaml", "__metadata:\n  version: [8\n", errs.ErrCodeInvalidYAML},
		{"duplicate keys", "__metadata:\n  version: 8\n\"a@npm:1\":\n  version: 1\n\"a@npm:1\":\n  version: 2\n", errs.ErrCodeInvalidYAML},
		{"no metadata", "\"a@npm:1\":\n  version: 1.0.0\n", errs.ErrCodeInvalidSchema},
		{"null metadata", "__metadata:\n", errs.ErrCodeInvalidSchema},
		{"non-numeric version", "__metadata:\n  version: latest\n", errs.ErrCodeInvalidSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseYarnBerry(tt.text)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Equal(t, tt.code, errs.GetCode(err))
		})
	}
}
