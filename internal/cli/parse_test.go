package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgio "github.com/matzehuels/lockparse/pkg/io"
)

const fixtures = "../../pkg/lockfile/testdata"

// execute runs the root command with args against an isolated config and
// cache, returning what the command wrote to its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"npm", "npm"},
		{"npm/package-lock.json", "npm"},
		{"yarn-v1", "yarn-classic"},
		{"yarn-v4/yarn.lock", "yarn-berry"},
		{"pnpm-v7", "pnpm"},
		{"pnpm-v9/pnpm-lock.yaml", "pnpm"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out, err := execute(t, "detect", filepath.Join(fixtures, tt.path))
			if err != nil {
				t.Fatalf("detect error: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectCommandErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "detect", dir); err == nil || !strings.Contains(err.Error(), "no lock file found") {
		t.Errorf("detect on empty dir error = %v", err)
	}

	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("just some text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "detect", path); err == nil || !strings.Contains(err.Error(), "DETECTION_FAILED") {
		t.Errorf("detect on plain text error = %v", err)
	}
}

func TestParseCommandStdout(t *testing.T) {
	out, err := execute(t, "parse", filepath.Join(fixtures, "yarn-v1"), "--output-format", "yaml")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !strings.Contains(out, "ecosystem: yarn") || !strings.Contains(out, `ecosystemVersion: "1"`) {
		t.Errorf("parse output:\n%s", out)
	}

	out, err = execute(t, "parse", filepath.Join(fixtures, "npm"), "--no-cache")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	doc, err := pkgio.UnmarshalJSON([]byte(out))
	if err != nil {
		t.Fatalf("parse output is not a document: %v", err)
	}
	if doc.Len() != 7 {
		t.Errorf("packages = %d, want 7", doc.Len())
	}
}

func TestParseCommandOutputFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "deps.json")
	out, err := execute(t, "parse", filepath.Join(fixtures, "pnpm-v9"), "-o", dest)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if out != "" {
		t.Errorf("nothing should be written to the command output, got %q", out)
	}

	doc, err := pkgio.ImportJSON(dest)
	if err != nil {
		t.Fatalf("ImportJSON(%s): %v", dest, err)
	}
	if doc.Ecosystem != "pnpm" || doc.EcosystemVersion != "9.0" {
		t.Errorf("document = %s %s", doc.Ecosystem, doc.EcosystemVersion)
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad output format", []string{"parse", filepath.Join(fixtures, "npm"), "--output-format", "xml"}, "INVALID_FORMAT"},
		{"bad format name", []string{"parse", filepath.Join(fixtures, "npm"), "--as", "bun"}, "INVALID_FORMAT"},
		{"forced wrong format", []string{"parse", filepath.Join(fixtures, "yarn-v4"), "--as", "yarn-classic"}, "UNSUPPORTED_VERSION"},
		{"missing file", []string{"parse", filepath.Join(fixtures, "nope.lock")}, "FILE_NOT_FOUND"},
		{"no args", []string{"parse"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseCommandUsesCache(t *testing.T) {
	isolateEnv(t)
	cacheHome := os.Getenv("XDG_CACHE_HOME")

	run := func() {
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		root.SetOut(io.Discard)
		root.SetArgs([]string{"parse", filepath.Join(fixtures, "npm")})
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("parse error: %v", err)
		}
	}
	run()

	entries := countFiles(t, filepath.Join(cacheHome, appName))
	if entries != 1 {
		t.Fatalf("cache entries after parse = %d, want 1", entries)
	}
	run()
	if got := countFiles(t, filepath.Join(cacheHome, appName)); got != entries {
		t.Errorf("cache entries after repeated parse = %d, want %d", got, entries)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if got := countFiles(t, filepath.Join(cacheHome, appName)); got != 0 {
		t.Errorf("cache entries after clear = %d, want 0", got)
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", filepath.Join(fixtures, "npm"), "--kinds", "dependencies,devDependencies")
	if err != nil {
		t.Fatalf("graph error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("graph output should be DOT:\n%s", out)
	}
	if !strings.Contains(out, `"typescript@^5.4.0"`) {
		t.Errorf("devDependencies edge missing:\n%s", out)
	}

	if _, err := execute(t, "graph", filepath.Join(fixtures, "npm"), "--kinds", "bundled"); err == nil {
		t.Error("graph with an unknown kind should fail")
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return n
}
