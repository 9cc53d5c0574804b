// Package main removes build output, test artefacts and cppfmt log files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	for _, dir := range []string{"bin"} {
		remove(dir, os.RemoveAll(dir))
	}
	for _, pattern := range []string{"*.log", "coverage*", "*.out", "*.test", "*.coverprofile"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			_, _ = fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			remove(match, os.Remove(match))
		}
	}
}

func remove(path string, err error) {
	if err != nil {
		_, _ = fmt.Printf("❌ Failed to remove %s: %v\n", path, err)
		return
	}
	_, _ = fmt.Printf("✅ Removed %s\n", path)
}
