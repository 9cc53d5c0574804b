package sources

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the gitignore-style file clang-format itself consults.
const IgnoreFileName = ".clang-format-ignore"

// Matcher excludes entries found while walking a directory.
type Matcher interface {
	Excluded(path string, isDir bool) bool
}

// GlobMatcher excludes paths matching doublestar globs, relative to a base directory.
type GlobMatcher struct {
	base     string
	patterns []string
}

// NewGlobMatcher validates the patterns and returns a matcher rooted at base.
func NewGlobMatcher(base string, patterns []string) (*GlobMatcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, &InvalidPatternError{Pattern: p}
		}
	}
	return &GlobMatcher{base: base, patterns: patterns}, nil
}

// Excluded matches each pattern against the path relative to the base and against its base name.
func (g *GlobMatcher) Excluded(path string, _ bool) bool {
	rel := relativeTo(g.base, path)
	name := filepath.Base(path)
	for _, p := range g.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// IgnoreFileMatcher applies a .clang-format-ignore file.
type IgnoreFileMatcher struct {
	dir string
	gi  *ignore.GitIgnore
}

// LoadIgnoreFile reads the ignore file in dir. A missing file returns nil and no error.
func LoadIgnoreFile(dir string) (*IgnoreFileMatcher, error) {
	path := filepath.Join(dir, IgnoreFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, &InvalidIgnoreFileError{Path: path, Wrapped: err}
	}
	return &IgnoreFileMatcher{dir: dir, gi: gi}, nil
}

// Excluded reports whether the ignore file matches the path. Paths outside
// the ignore file's directory are never excluded.
func (m *IgnoreFileMatcher) Excluded(path string, isDir bool) bool {
	rel, err := filepath.Rel(m.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return m.gi.MatchesPath(rel)
}

func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
