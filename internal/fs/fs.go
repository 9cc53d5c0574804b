// Package fs holds the small file system helpers shared by the cppfmt packages.
package fs

// defaultResolver is used by the package-level helpers.
var defaultResolver = NewPathResolver()

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
// This is a convenience function that uses the default StandardPathResolver.
func CanonicalPath(path string) (string, error) {
	return defaultResolver.CanonicalPath(path)
}

// Abs returns the absolute, cleaned path.
// This is a convenience function that uses the default StandardPathResolver.
func Abs(path string) (string, error) {
	return defaultResolver.Abs(path)
}

// Classify reports whether path is a regular file, a directory or neither.
// This is a convenience function that uses the default StandardPathResolver.
func Classify(path string) Kind {
	return defaultResolver.Classify(path)
}
