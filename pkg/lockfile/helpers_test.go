package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", path))
	require.NoError(t, err)
	return string(data)
}

// requireComplete fails unless every package carries all four dependency maps.
func requireComplete(t *testing.T, doc *Document) {
	t.Helper()
	for key, p := range doc.Packages {
		require.NotNil(t, p, "package %q", key)
		for _, k := range Kinds() {
			require.NotNil(t, p.Set(k), "package %q: %s is nil", key, k)
		}
	}
}
