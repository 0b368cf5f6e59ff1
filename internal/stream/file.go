package stream

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/phpreflect/pkg/types"
)

// FromFile tokenizes the file at path. The stream is named by the
// canonical path of the file.
func FromFile(path string) (*TokenStream, error) {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrNotReadable, canonical, err)
	}

	return New(string(content), canonical)
}

// FromString tokenizes in-memory source tagged with an arbitrary label
func FromString(source, label string) (*TokenStream, error) {
	return New(source, label)
}

// CanonicalPath resolves path to an absolute path with relative segments
// and symlinks resolved
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve %s: %v", types.ErrNotFound, path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve %s: %v", types.ErrNotFound, path, err)
	}
	return resolved, nil
}
