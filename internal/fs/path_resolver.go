package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Kind is the file system classification of a path.
type Kind int

const (
	// KindInvalid is a path that does not exist or is neither a regular file nor a directory.
	KindInvalid Kind = iota
	// KindFile is a regular file, or a symlink to one.
	KindFile
	// KindDir is a directory, or a symlink to one.
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "invalid"
	}
}

// PathResolver provides path resolution operations.
type PathResolver interface {
	// CanonicalPath returns the canonical, absolute path by resolving symlinks.
	CanonicalPath(path string) (string, error)
	// Abs returns the absolute path.
	Abs(path string) (string, error)
	// Classify reports the Kind of the path, following symlinks.
	Classify(path string) Kind
}

// StandardPathResolver is the default implementation using standard library functions.
type StandardPathResolver struct{}

// NewPathResolver creates a new StandardPathResolver.
func NewPathResolver() *StandardPathResolver {
	return &StandardPathResolver{}
}

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
func (r *StandardPathResolver) CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// Abs returns the absolute path. Symlinks are left in place.
func (r *StandardPathResolver) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Classify reports the Kind of the path, following symlinks.
func (r *StandardPathResolver) Classify(path string) Kind {
	info, err := os.Stat(path)
	if err != nil {
		return KindInvalid
	}
	switch {
	case info.Mode().IsRegular():
		return KindFile
	case info.IsDir():
		return KindDir
	default:
		return KindInvalid
	}
}

// IsWithin reports whether path equals root or lies beneath it.
// Both paths must be absolute and clean.
func IsWithin(path, root string) bool {
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}
