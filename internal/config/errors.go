package config

import (
	"fmt"
	"strings"
)

type ConfigNotFoundError struct {
	Root     string
	Explicit bool // the path was given with --style-file rather than searched for
}

func (e *ConfigNotFoundError) Error() string {
	if e.Explicit {
		return fmt.Sprintf("style file %s does not exist or is not a regular file", e.Root)
	}
	return fmt.Sprintf("could not find a %s file under %s", StyleFileName, e.Root)
}

type AmbiguousConfigError struct {
	Root    string
	Matches []string
}

func (e *AmbiguousConfigError) Error() string {
	return fmt.Sprintf(
		"found %d %s files under %s, expected exactly one:\n%s",
		len(e.Matches),
		StyleFileName,
		e.Root,
		strings.Join(e.Matches, "\n"),
	)
}

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type InvalidSettingsError struct {
	Path    string
	Wrapped error
}

func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("%s has invalid settings: %v", e.Path, e.Wrapped)
}

func (e *InvalidSettingsError) Unwrap() error {
	return e.Wrapped
}

type SettingsExistError struct {
	Path string
}

func (e *SettingsExistError) Error() string {
	return fmt.Sprintf("settings file already exists: %s", e.Path)
}
