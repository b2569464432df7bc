package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxCeiling is the largest crossing ceiling any solver accepts.
const MaxCeiling = 15

// ValidatePath validates a user-supplied file path for safety.
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

// ValidateCeiling checks that a crossing ceiling is usable by the solvers.
func ValidateCeiling(ceiling int) error {
	if ceiling < 0 {
		return New(ErrCodeInvalidInput, "crossing ceiling must not be negative (got %d)", ceiling)
	}
	if ceiling > MaxCeiling {
		return New(ErrCodeInvalidInput, "crossing ceiling %d exceeds the maximum of %d", ceiling, MaxCeiling)
	}
	return nil
}

// ValidateMethod checks that method is one of the valid solver names.
func ValidateMethod(method string, valid []string) error {
	if !slices.Contains(valid, method) {
		return New(ErrCodeInvalidFormat, "invalid method %q (must be one of: %s)", method, strings.Join(valid, ", "))
	}
	return nil
}

// ValidateGraph6 performs a cheap syntactic check of a graph6 string: every
// byte must lie in the printable range 63..126 after an optional header.
func ValidateGraph6(s string) error {
	s = strings.TrimPrefix(strings.TrimSpace(s), ">>graph6<<")
	if s == "" {
		return New(ErrCodeInvalidInput, "graph6 string cannot be empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 63 || s[i] > 126 {
			return New(ErrCodeInvalidInput, "graph6 string has invalid byte %q at offset %d", s[i], i)
		}
	}
	return nil
}
