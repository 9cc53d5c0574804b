// Package formatter runs clang-format over a set of files.
package formatter

import "context"

// DefaultBinary is the formatter looked up on PATH when nothing overrides it.
const DefaultBinary = "clang-format"

// BinaryEnvVar overrides the formatter binary.
const BinaryEnvVar = "CPPFMT_CLANG_FORMAT"

// Formatter defines the operations cppfmt needs from the external formatter.
type Formatter interface {
	// CheckInstalled fails with ToolNotInstalledError when the binary cannot be found.
	CheckInstalled() error

	// Format rewrites the files in place using the given style file.
	Format(ctx context.Context, styleFile string, files []string) error

	// Check reports, without writing, whether any file needs formatting.
	Check(ctx context.Context, styleFile string, files []string) error
}

// Arguments builds the formatter command line for one batch of files.
func Arguments(styleFile string, check bool, files []string) []string {
	args := make([]string, 0, len(files)+3)
	args = append(args, "-style=file:"+styleFile)
	if check {
		args = append(args, "--dry-run", "--Werror")
	} else {
		args = append(args, "-i")
	}
	return append(args, files...)
}

// Batches splits files into at most n contiguous batches whose sizes differ by at most one.
func Batches(files []string, n int) [][]string {
	if len(files) == 0 {
		return nil
	}
	n = max(1, min(n, len(files)))

	out := make([][]string, 0, n)
	size, extra := len(files)/n, len(files)%n
	start := 0
	for i := range n {
		end := start + size
		if i < extra {
			end++
		}
		out = append(out, files[start:end])
		start = end
	}
	return out
}
