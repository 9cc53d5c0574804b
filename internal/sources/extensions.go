package sources

import (
	"path/filepath"
	"strings"
)

// builtinExtensions are the C/C++ source and header suffixes recognised in a directory walk.
// Matching is case-sensitive: ".C" is C++, ".c" is not.
var builtinExtensions = []string{
	".cpp", ".cc", ".cxx", ".C",
	".h", ".hpp", ".hh", ".hxx",
	".ipp", ".tpp", ".inl",
}

// BuiltinExtensions returns a copy of the built-in allow-list.
func BuiltinExtensions() []string {
	return append([]string(nil), builtinExtensions...)
}

// extension returns the suffix of a file name, ignoring leading dots so that
// ".h" or ".clang-format" have no extension.
func extension(name string) string {
	return filepath.Ext(strings.TrimLeft(name, "."))
}
