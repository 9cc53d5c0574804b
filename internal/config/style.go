package config

import (
	iofs "io/fs"
	"path/filepath"
	"slices"

	"github.com/andyballingall/cppfmt/internal/fs"
)

// StyleFileName is the clang-format style file searched for below the working directory.
const StyleFileName = ".clang-format"

// LocateStyleFile searches the tree below root for exactly one style file and
// returns its canonical path. Unreadable directories are skipped.
func LocateStyleFile(root string) (string, error) {
	absRoot, err := fs.Abs(root)
	if err != nil {
		return "", err
	}

	var matches []string
	err = filepath.WalkDir(absRoot, func(path string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() != StyleFileName {
			return nil
		}
		if d.Type().IsRegular() || fs.Classify(path) == fs.KindFile {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", &ConfigNotFoundError{Root: absRoot}
	case 1:
		return fs.CanonicalPath(matches[0])
	default:
		slices.Sort(matches)
		return "", &AmbiguousConfigError{Root: absRoot, Matches: matches}
	}
}

// StyleFileFromPath validates an explicitly chosen style file and returns its canonical path.
func StyleFileFromPath(path string) (string, error) {
	if fs.Classify(path) != fs.KindFile {
		return "", &ConfigNotFoundError{Root: path, Explicit: true}
	}
	return fs.CanonicalPath(path)
}
