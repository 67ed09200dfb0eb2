// Package locate finds and reads lock files on disk.
//
// It is the only part of lockparse that touches the filesystem; the parsers
// in [github.com/matzehuels/lockparse/pkg/lockfile] work on text alone.
package locate

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	errs "github.com/matzehuels/lockparse/pkg/errors"
	"github.com/matzehuels/lockparse/pkg/lockfile"
)

// Names lists the lock-file names looked for in a directory, in order of
// preference. The first one present wins.
var Names = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
}

// Source is lock-file text together with the path it was read from.
type Source struct {
	Path string
	Text string
}

// Find returns the path of the preferred lock file in dir.
func Find(dir string) (string, error) {
	if err := errs.ValidatePath(dir); err != nil {
		return "", err
	}
	for _, name := range Names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", errs.New(errs.ErrCodeLockfileNotFound, "no lock file found in directory: %s", dir)
}

// Read returns the full contents of the lock file at path.
func Read(path string) (string, error) {
	if err := errs.ValidatePath(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "lock file not found: %s", path)
	}
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "read %s", path)
	}
	return string(data), nil
}

// Load finds the preferred lock file in dir and reads it.
func Load(dir string) (*Source, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	text, err := Read(path)
	if err != nil {
		return nil, err
	}
	return &Source{Path: path, Text: text}, nil
}

// Resolve loads path as a lock file, or as a directory containing one.
func Resolve(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return Load(path)
	}
	text, err := Read(path)
	if err != nil {
		return nil, err
	}
	return &Source{Path: path, Text: text}, nil
}

// Parse loads the preferred lock file in dir and parses it with format
// detection. Not-found errors and parse errors keep their distinct codes.
func Parse(dir string) (*lockfile.Document, *Source, error) {
	src, err := Load(dir)
	if err != nil {
		return nil, nil, err
	}
	doc, err := lockfile.Parse(src.Text)
	if err != nil {
		return nil, src, err
	}
	return doc, src, nil
}
