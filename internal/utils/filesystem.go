package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindConfigFile traverses up from the working directory looking for a file
// called name. Returns the absolute path if found, empty string otherwise.
func FindConfigFile(name string) (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(currentDir, name)
		fileInfo, err := os.Stat(candidate)
		if err == nil {
			if !fileInfo.IsDir() {
				return candidate, nil
			}
		} else if !os.IsNotExist(err) {
			// Return any error that's not "file not found" (like permission issues)
			return "", fmt.Errorf("error checking for %s at %s: %w", name, currentDir, err)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

// ResolvePath returns p unchanged when absolute, otherwise joined onto baseDir.
func ResolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// IsGroupOrWorldAccessible reports whether anyone but the owner can access path.
func IsGroupOrWorldAccessible(path string) (bool, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, 0, err
	}
	perm := info.Mode().Perm()
	return perm&0o077 != 0, perm, nil
}
