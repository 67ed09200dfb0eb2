package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize bounds lock-file text accepted from untrusted callers.
const DefaultMaxInputSize = 64 << 20

// ValidateLockfileText rejects input that cannot be a lock file before any
// parser runs: empty or whitespace-only text, text larger than max bytes
// (max <= 0 selects [DefaultMaxInputSize]), invalid UTF-8 and NUL bytes.
func ValidateLockfileText(text string, max int) error {
	if max <= 0 {
		max = DefaultMaxInputSize
	}
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "lock file is empty")
	}
	if len(text) > max {
		return New(ErrCodeInvalidInput, "lock file too large (%d bytes, max %d)", len(text), max)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "lock file is not valid UTF-8")
	}
	if strings.IndexByte(text, 0) >= 0 {
		return New(ErrCodeInvalidInput, "lock file contains NUL bytes")
	}
	return nil
}

// ValidatePath validates a user-supplied file or directory path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
