// Package validate screens submitted code before execution. The denylist
// check is a surface-level heuristic that blocks only the most obvious
// hostile snippets; it is trivially bypassable and must not be mistaken
// for a sandbox. Real isolation is out of scope for this layer.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyCode = errors.New("Code cannot be empty")
)

// TooLongError reports code exceeding the configured maximum length.
type TooLongError struct {
	Max int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("Code too long. Maximum %d characters allowed.", e.Max)
}

// DeniedPatternError reports a denylisted substring found in the code.
type DeniedPatternError struct {
	Pattern string
}

func (e *DeniedPatternError) Error() string {
	return fmt.Sprintf("Potentially dangerous code detected: %s", e.Pattern)
}

type Validator struct {
	maxCodeLength  int
	deniedPatterns []string
}

func New(maxCodeLength int, deniedPatterns []string) *Validator {
	return &Validator{
		maxCodeLength:  maxCodeLength,
		deniedPatterns: deniedPatterns,
	}
}

// Validate checks code length and scans for denylisted substrings. It has
// no side effects and never touches the filesystem.
func (v *Validator) Validate(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyCode
	}

	// The limit counts characters, not bytes: multibyte source (string
	// literals, comments) must not be penalized for its encoding.
	if utf8.RuneCountInString(code) > v.maxCodeLength {
		return &TooLongError{Max: v.maxCodeLength}
	}

	lower := strings.ToLower(code)
	for _, pattern := range v.deniedPatterns {
		if strings.Contains(lower, pattern) {
			return &DeniedPatternError{Pattern: pattern}
		}
	}

	return nil
}
