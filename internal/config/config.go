// Package config locates the clang-format style file and loads cppfmt's own settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFile holds project defaults for cppfmt. It is read from the working directory only.
const SettingsFile = ".cppfmt.yml"

const DefaultSettingsContent = `# cppfmt settings
#
# Command line flags override every value in this file.

# Files and directories to format. Defaults to the current directory.
paths:
  - .

# Files and directories never formatted. A directory excludes everything beneath it.
ignore: []

# Glob patterns (doublestar syntax) matched against paths found while walking
# directories, relative to this file. Example: "**/*.pb.h"
exclude: []

# Extensions recognised in addition to the built-in C/C++ ones.
extensions: []

# The formatter binary. Can also be set with CPPFMT_CLANG_FORMAT.
formatter: clang-format

# Number of formatter processes run in parallel.
jobs: 1
`

// Settings are the values a project may pin in SettingsFile.
type Settings struct {
	Paths      []string `yaml:"paths"`
	Ignore     []string `yaml:"ignore"`
	Exclude    []string `yaml:"exclude"`
	Extensions []string `yaml:"extensions"`
	Formatter  string   `yaml:"formatter"`
	Jobs       int      `yaml:"jobs"`

	// Path is the file the settings were read from, empty when none exists.
	Path string `yaml:"-"`
}

// LoadSettings reads SettingsFile from dir. A missing file returns empty settings.
func LoadSettings(dir string) (*Settings, error) {
	path := filepath.Join(dir, SettingsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var doc any
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if doc == nil {
		return &Settings{Path: path}, nil
	}

	if err = validateSettingsDocument(doc); err != nil {
		return nil, &InvalidSettingsError{Path: path, Wrapped: err}
	}

	var s Settings
	if err = yaml.Unmarshal(data, &s); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	s.Path = path
	return &s, nil
}

// WriteDefaultSettings creates SettingsFile in dir with commented defaults.
func WriteDefaultSettings(dir string) (string, error) {
	path := filepath.Join(dir, SettingsFile)
	if _, err := os.Stat(path); err == nil {
		return "", &SettingsExistError{Path: path}
	}
	if err := os.WriteFile(path, []byte(DefaultSettingsContent), 0o644); err != nil {
		return "", fmt.Errorf("failed to write settings file: %w", err)
	}
	return path, nil
}
