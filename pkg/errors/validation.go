package errors

import (
	"strings"
	"unicode"
)

// maxModuleIDLength bounds module ids. Ids end up in diagram identifiers and
// cache keys, so pathological lengths are rejected early.
const maxModuleIDLength = 256

// ValidateModuleID validates a registry module id.
//
// Ids are usually repository paths ("packages/core/src", or
// "packages\core\src" from Windows tooling), so the rules follow what a
// relative path may contain:
//   - No empty ids
//   - No control characters
//   - No leading or trailing whitespace
//   - No path traversal sequences (.., //)
//   - Maximum length of 256 characters
func ValidateModuleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidModuleID, "module id cannot be empty")
	}

	if len(id) > maxModuleIDLength {
		return New(ErrCodeInvalidModuleID, "module id too long (max %d characters)", maxModuleIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModuleID, "module id contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidModuleID, "module id has leading or trailing whitespace: %q", id)
	}

	dangerousPatterns := []string{
		"..", // Parent directory
		"//", // Double slash
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidModuleID, "module id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates an output path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
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

	return nil
}

// ValidateURL validates a backend connection URL.
// It ensures the URL uses one of the allowed schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidConfig, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
