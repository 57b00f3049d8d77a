package errors

import (
	"strings"
	"unicode"
)

// maxStateIDLength bounds state identifiers accepted from model files.
const maxStateIDLength = 256

// ValidateStateID validates a state identifier loaded from a model file.
//
// The rules are conservative because ids end up as node names in DOT text:
//   - No empty ids
//   - No control characters (including newlines)
//   - No double quotes or backslashes
//   - Maximum length of 256 characters
//
// Ids that pass are safe to emit either bare or quoted.
func ValidateStateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidModel, "state id cannot be empty")
	}

	if len(id) > maxStateIDLength {
		return New(ErrCodeInvalidModel, "state id too long (max %d characters)", maxStateIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModel, "state id %q contains control characters", id)
		}
	}

	if strings.ContainsAny(id, "\"\\") {
		return New(ErrCodeInvalidModel, "state id %q contains quotes or backslashes", id)
	}

	return nil
}

// ValidatePath validates an output path given to the CLI.
// It rejects empty paths, control characters and directory-only paths.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}

	return nil
}
