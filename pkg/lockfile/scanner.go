package lockfile

import "strings"

// lineKind classifies a yarn.lock (v1) line by indentation and shape.
type lineKind int

const (
	lineSkip       lineKind = iota // blank line or comment
	lineEntry                      // "key:" at column 0
	lineHeader                     // "  name:" opening a dependency block
	lineField                      // "  field value"
	lineDependency                 // "    name value"
	lineOther                      // anything else; ignored
)

type scannedLine struct {
	kind  lineKind
	num   int // 1-based
	key   string
	value string
}

// scanner walks yarn.lock text one line at a time. Indentation of 0, 2 or 4
// spaces is the only structure it recognizes.
type scanner struct {
	lines []string
	pos   int
	cur   scannedLine
}

func newScanner(text string) *scanner {
	return &scanner{lines: strings.Split(text, "\n")}
}

// Scan advances to the next line, reporting false at end of input.
func (s *scanner) Scan() bool {
	if s.pos >= len(s.lines) {
		return false
	}
	raw := strings.TrimSuffix(s.lines[s.pos], "\r")
	s.pos++
	s.cur = classify(raw)
	s.cur.num = s.pos
	return true
}

// Line returns the line read by the last call to Scan.
func (s *scanner) Line() scannedLine {
	return s.cur
}

func classify(raw string) scannedLine {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return scannedLine{kind: lineSkip}
	}

	switch indentOf(raw) {
	case 0:
		if key, ok := strings.CutSuffix(trimmed, ":"); ok {
			return scannedLine{kind: lineEntry, key: key}
		}
	case 2:
		if key, ok := strings.CutSuffix(trimmed, ":"); ok {
			return scannedLine{kind: lineHeader, key: key}
		}
		if key, value, ok := splitPair(trimmed); ok {
			return scannedLine{kind: lineField, key: key, value: value}
		}
	case 4:
		if key, value, ok := splitPair(trimmed); ok {
			return scannedLine{kind: lineDependency, key: unquote(key), value: value}
		}
	}
	return scannedLine{kind: lineOther}
}

// indentOf returns 0, 2 or 4 for lines indented by exactly that many spaces
// and -1 for anything else (tabs, odd or deeper indentation).
func indentOf(raw string) int {
	for _, n := range []int{0, 2, 4} {
		if len(raw) > n && strings.TrimLeft(raw[:n], " ") == "" && raw[n] != ' ' && raw[n] != '\t' {
			return n
		}
	}
	return -1
}

// splitPair splits `name value` at the first run of whitespace and unquotes
// the value.
func splitPair(s string) (key, value string, ok bool) {
	i := strings.IndexAny(s, " \t")
	if i <= 0 {
		return "", "", false
	}
	value = strings.TrimSpace(s[i:])
	if value == "" {
		return "", "", false
	}
	return s[:i], unquote(value), true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
