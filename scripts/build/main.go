// Package main builds the cppfmt binary into bin/ with the version stamped in.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/cppfmt/internal/app.Version"

func main() {
	binaryName := "cppfmt"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := describe()
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version)

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building cppfmt %s...\n", version)

	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/cppfmt")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}

// describe returns the git description of HEAD, or "dev" outside a repository.
func describe() string {
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
