// Package sources discovers the C/C++ files to hand to the formatter.
package sources

import (
	"errors"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/andyballingall/cppfmt/internal/fs"
)

// Result is the outcome of resolving a set of search paths.
type Result struct {
	// Files are the absolute paths to format, sorted.
	Files []string
	// Invalid are search paths that were neither an accepted file nor an accepted directory.
	Invalid []string
	// Roots are the directories that were expanded, sorted.
	Roots []string
	// Ignored are the normalised ignore paths.
	Ignored []string
}

// Resolver turns search and ignore paths into the set of files to format.
type Resolver struct {
	logger     *slog.Logger
	paths      fs.PathResolver
	extensions map[string]struct{}
	matchers   []Matcher
}

// NewResolver creates a Resolver recognising the built-in extensions plus extra.
// Matchers are consulted for every entry found while walking a directory.
func NewResolver(logger *slog.Logger, extra []string, matchers ...Matcher) *Resolver {
	exts := make(map[string]struct{}, len(builtinExtensions)+len(extra))
	for _, e := range builtinExtensions {
		exts[e] = struct{}{}
	}
	for _, e := range extra {
		exts[e] = struct{}{}
	}
	return &Resolver{
		logger:     logger.With("component", "resolver"),
		paths:      fs.NewPathResolver(),
		extensions: exts,
		matchers:   matchers,
	}
}

// Resolve classifies each search path and expands directories into source files.
//
// Explicitly named files bypass the extension filter and the matchers. Anything
// equal to or beneath an ignore path is dropped. Paths that cannot be used are
// returned in Result.Invalid rather than as an error.
func (r *Resolver) Resolve(searchPaths, ignorePaths []string) (*Result, error) {
	search, err := r.normalise(searchPaths)
	if err != nil {
		return nil, err
	}
	ignored, err := r.normalise(ignorePaths)
	if err != nil {
		return nil, err
	}

	res := &Result{Ignored: ignored}
	files := make(map[string]struct{})

	for _, p := range search {
		if isIgnored(p, ignored) {
			res.Invalid = append(res.Invalid, p)
			continue
		}
		switch r.paths.Classify(p) {
		case fs.KindFile:
			files[p] = struct{}{}
		case fs.KindDir:
			res.Roots = append(res.Roots, p)
		default:
			res.Invalid = append(res.Invalid, p)
		}
	}

	for _, root := range res.Roots {
		r.expand(root, ignored, files)
	}

	res.Files = make([]string, 0, len(files))
	for f := range files {
		res.Files = append(res.Files, f)
	}
	slices.Sort(res.Files)
	slices.Sort(res.Invalid)
	slices.Sort(res.Roots)

	r.logger.Debug("resolved search paths",
		"files", len(res.Files), "roots", len(res.Roots), "invalid", len(res.Invalid))
	return res, nil
}

// Accepts reports whether a file found beneath one of roots would be collected by a walk.
func (r *Resolver) Accepts(path string, roots, ignored []string) bool {
	within := false
	for _, root := range roots {
		if fs.IsWithin(path, root) {
			within = true
			break
		}
	}
	if !within || isIgnored(path, ignored) || !r.HasAllowedExtension(path) {
		return false
	}
	return !r.excluded(path, false)
}

// SkipsDir reports whether a walk would prune the directory at path.
func (r *Resolver) SkipsDir(path string, ignored []string) bool {
	return isIgnored(path, ignored) || r.excluded(path, true)
}

// HasAllowedExtension reports whether the path's suffix is in the allow-list.
func (r *Resolver) HasAllowedExtension(path string) bool {
	_, ok := r.extensions[extension(filepath.Base(path))]
	return ok
}

func (r *Resolver) normalise(paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := r.paths.Abs(p)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out, nil
}

func (r *Resolver) expand(root string, ignored []string, files map[string]struct{}) {
	walkRoot := root
	// WalkDir does not follow a symlinked root; a trailing separator makes Lstat resolve it.
	if info, err := os.Lstat(root); err == nil && info.Mode()&os.ModeSymlink != 0 {
		walkRoot = root + string(filepath.Separator)
	}

	err := filepath.WalkDir(walkRoot, func(path string, d iofs.DirEntry, err error) error {
		path = filepath.Clean(path)
		if err != nil {
			r.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && (isIgnored(path, ignored) || r.excluded(path, true)) {
				r.logger.Debug("skipping directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}

		if isIgnored(path, ignored) || !r.HasAllowedExtension(path) || r.excluded(path, false) {
			return nil
		}

		switch {
		case d.Type().IsRegular():
		case d.Type()&iofs.ModeSymlink != 0 && r.paths.Classify(path) == fs.KindFile:
		default:
			return nil
		}

		files[path] = struct{}{}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipDir) {
		r.logger.Warn("directory walk failed", "root", root, "error", err)
	}
}

func (r *Resolver) excluded(path string, isDir bool) bool {
	for _, m := range r.matchers {
		if m.Excluded(path, isDir) {
			return true
		}
	}
	return false
}

func isIgnored(path string, ignored []string) bool {
	for _, ig := range ignored {
		if fs.IsWithin(path, ig) {
			return true
		}
	}
	return false
}
