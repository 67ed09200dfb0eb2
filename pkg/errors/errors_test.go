package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSchema, "missing %s", "lockfileVersion")

	if err.Code != ErrCodeInvalidSchema {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSchema)
	}

	if err.Message != "missing lockfileVersion" {
		t.Errorf("Message = %v, want %v", err.Message, "missing lockfileVersion")
	}

	expected := "INVALID_SCHEMA: missing lockfileVersion"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeInvalidJSON, cause, "failed to parse JSON")

	if err.Code != ErrCodeInvalidJSON {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidJSON)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INVALID_JSON: failed to parse JSON: unexpected end of JSON input"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeDetection, "test"),
			code:     ErrCodeDetection,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeDetection, "test"),
			code:     ErrCodeInvalidSchema,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeLockfileNotFound, New(ErrCodeFileNotFound, "inner"), "outer"),
			code:     ErrCodeLockfileNotFound,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeUnsupportedVersion, "test"), ErrCodeUnsupportedVersion},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		code         Code
		syntax       bool
		parseFailure bool
	}{
		{ErrCodeInvalidJSON, true, true},
		{ErrCodeInvalidYAML, true, true},
		{ErrCodeInvalidSchema, false, true},
		{ErrCodeUnsupportedVersion, false, true},
		{ErrCodeDetection, false, false},
		{ErrCodeLockfileNotFound, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := IsSyntax(err); got != tt.syntax {
				t.Errorf("IsSyntax() = %v, want %v", got, tt.syntax)
			}
			if got := IsParseFailure(err); got != tt.parseFailure {
				t.Errorf("IsParseFailure() = %v, want %v", got, tt.parseFailure)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"with cause", Wrap(ErrCodeInvalidYAML, errors.New("line 3: bad"), "failed to parse YAML"), "failed to parse YAML: line 3: bad"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
