package errors

import (
	"strings"
	"unicode"
)

// ValidatePhotoPath validates a photo path received from an API client.
// It prevents path traversal out of the photo root and ensures a
// reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative to the photo root)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePhotoPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateDirName validates a directory filter received from an API client.
// It must be a simple directory name without path components.
func ValidateDirName(name string) error {
	if name == "" {
		return nil // empty means no filter
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "directory filter cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "directory filter cannot be a hidden directory")
	}

	return ValidatePhotoPath(name)
}
