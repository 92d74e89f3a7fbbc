// Package workdir locates the directory the knob tools keep their files in.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides Root when set.
const RootEnv = "KNOB_HOME"

// Root returns the base directory for all knob working files. Unless
// KNOB_HOME is set, it resolves to:
//
//	$HOME/Documents/Alkime/Knobs
func Root() (string, error) {
	if dir := os.Getenv(RootEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, "Documents", "Alkime", "Knobs"), nil
}

// MarkersDir returns the default directory of the file marker store.
func MarkersDir() (string, error) {
	return FilePath("markers")
}

// LogFile returns the path the TUI logs to.
func LogFile() (string, error) {
	return FilePath("knob.log")
}

// FilePath returns the full path for a file under the root.
func FilePath(name string) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, name), nil
}

// Prep ensures that the root directory exists.
func Prep() error {
	root, err := Root()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create working directory %s: %w", root, err)
	}

	return nil
}
