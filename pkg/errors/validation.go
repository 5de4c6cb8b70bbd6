package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds plan and preset names.
const maxNameLength = 128

// ValidateName validates a plan or preset name for safety and correctness.
// Names become default output file names, so the rules reject anything
// that could escape the working directory:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No leading dot
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "name contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "name cannot start with a dot")
	}

	return nil
}
