package lockfile

import (
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

// ParseFunc converts lock-file text of one format into a Document.
type ParseFunc func(text string) (*Document, error)

var parsers = [...]ParseFunc{
	FormatNPM:         ParseNPM,
	FormatYarnClassic: ParseYarnClassic,
	FormatYarnBerry:   ParseYarnBerry,
	FormatPNPM:        ParsePNPM,
}

// Every parseable Format needs an entry; this fails to compile otherwise.
var _ = [1]struct{}{}[len(parsers)-int(numFormats)]

// Parse detects the format of text and parses it with the matching parser.
//
// Unrecognized text fails with ErrCodeDetection. Parser failures are returned
// unchanged so callers can inspect their specific code.
func Parse(text string) (*Document, error) {
	f := Detect(text)
	if f == FormatUnknown {
		return nil, errs.New(errs.ErrCodeDetection, "unable to determine lock-file format")
	}
	return ParseAs(f, text)
}

// ParseAs parses text as format f without running detection.
func ParseAs(f Format, text string) (*Document, error) {
	if f <= FormatUnknown || f >= numFormats {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "no parser for format %q", f)
	}
	return parsers[f](text)
}

// Parser reads one lock-file format. It mirrors how callers that work with
// files pick a parser: by name first, then by content.
type Parser interface {
	// Format returns the grammar this parser handles.
	Format() Format
	// Supports reports whether a file with this base name is normally in
	// this format.
	Supports(filename string) bool
	// Parse converts lock-file text into a Document.
	Parse(text string) (*Document, error)
}

type formatParser struct {
	format Format
	names  []string
}

func (p formatParser) Format() Format { return p.format }

func (p formatParser) Supports(filename string) bool {
	base := filepath.Base(filename)
	for _, n := range p.names {
		if strings.EqualFold(base, n) {
			return true
		}
	}
	return false
}

func (p formatParser) Parse(text string) (*Document, error) {
	return parsers[p.format](text)
}

// Both Yarn generations write yarn.lock; only the content tells them apart.
var fileNames = map[Format][]string{
	FormatNPM:         {"package-lock.json", "npm-shrinkwrap.json"},
	FormatYarnClassic: {"yarn.lock"},
	FormatYarnBerry:   {"yarn.lock"},
	FormatPNPM:        {"pnpm-lock.yaml"},
}

// ParserFor returns the Parser for f.
func ParserFor(f Format) (Parser, bool) {
	if f <= FormatUnknown || f >= numFormats {
		return nil, false
	}
	return formatParser{format: f, names: fileNames[f]}, true
}

// Parsers returns a Parser for every format in detection order.
func Parsers() []Parser {
	out := make([]Parser, 0, numFormats-1)
	for _, f := range Formats() {
		p, _ := ParserFor(f)
		out = append(out, p)
	}
	return out
}
