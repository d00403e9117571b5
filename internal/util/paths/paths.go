// Package paths handles repo-relative path construction for the content store.
//
// A store path is a slash-joined sequence of entry names below the repository
// root. The empty string addresses the root listing. Paths never begin or end
// with a slash and never contain empty segments.
package paths

import (
	"errors"
	"net/url"
	"strings"
)

// ErrEmptyName indicates a blank entry name where one is required.
var ErrEmptyName = errors.New("name must not be empty")

// ErrInvalidName indicates an entry name the store cannot address.
var ErrInvalidName = errors.New("name must not contain '/'")

// Join builds a store path from directory segments, skipping empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Child returns the path of a named entry inside dir.
func Child(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// Split returns the path's segments; the root path yields nil.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Encode escapes a store path for use in a request URL, segment by segment,
// preserving the separating slashes.
func Encode(path string) string {
	if path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// ValidateEntryName checks a user-supplied file or folder name.
// Names are single path segments; slashes would silently create
// intermediate directories in the store.
func ValidateEntryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.Contains(name, "/") {
		return ErrInvalidName
	}
	return nil
}

// Ext returns the final extension segment of name, lowercased, without the
// dot. "archive.tar.gz" yields "gz"; names without a dot yield "".
func Ext(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// ApplyExtension derives the final name for a rename. When the entered name
// already contains a dot the user's choice wins; otherwise the original
// name's extension (if any) is carried over.
func ApplyExtension(entered, original string) string {
	if strings.Contains(entered, ".") {
		return entered
	}
	if idx := strings.LastIndex(original, "."); idx >= 0 {
		return entered + original[idx:]
	}
	return entered
}
