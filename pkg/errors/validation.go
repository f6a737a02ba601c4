package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// maxTitleLength bounds document titles; Gliffy truncates longer titles in its UI.
const maxTitleLength = 256

// ValidateTitle validates a document title.
// Titles must be non-empty, free of control characters and at most 256 bytes.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidInput, "title cannot be empty")
	}
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", maxTitleLength)
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}

// ValidateDocumentName validates a sink document name.
// Names end up as file names, redis keys and mongo ids, so they must be a
// single path element.
//
// Validation rules:
//   - Maximum length of 200 characters
//   - No null bytes or control characters
//   - No path separators or traversal sequences (..)
//
// The empty name is valid: sinks replace it with a generated one.
func ValidateDocumentName(name string) error {
	if name == "" {
		return nil
	}
	const maxNameLength = 200
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPath, "document name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "document name contains invalid characters")
		}
	}
	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidPath, "document name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "document name cannot contain path traversal sequences (..)")
	}
	return nil
}

// ValidateOutputPath validates a file path passed on the command line.
// Unlike [ValidateDocumentName] it allows directories, but rejects empty paths,
// null bytes and paths whose cleaned form escapes upward from a relative root.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	if !filepath.IsAbs(path) && strings.HasPrefix(filepath.Clean(path), "..") {
		return New(ErrCodeInvalidPath, "relative path cannot escape the working directory")
	}
	return nil
}

// identifierRegex matches SQL identifiers accepted by the schema filter.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$.]*$`)

// ValidateIdentifier validates a table name given on the command line.
// Quoted identifiers are not supported.
func ValidateIdentifier(name string) error {
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid table name: %q", name)
	}
	return nil
}
