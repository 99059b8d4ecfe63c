package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"LowercaseSimple", "Chris", "chris"},
		{"SpacesToHyphens", "Mary Jane", "mary-jane"},
		{"RemoveSpecialChars", "Zuz!#", "zuz"},
		{"RemoveConsecutiveHyphens", "anne--marie", "anne-marie"},
		{"TrimHyphens", "-doug-", "doug"},
		{"EmptyToDefault", "", "participant"},
		{"OnlySpecialChars", "@#$%", "participant"},
		{"PreserveUnderscores", "katie_b", "katie_b"},
		{"TrimWhitespace", "  Haley  ", "haley"},
		{"PathSeparatorsStripped", "../etc/passwd", "etcpasswd"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SanitizeFileName(tc.input)
			if result != tc.expected {
				t.Errorf("SanitizeFileName(%q) = %q, expected %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/srv/santa", "keys/chris.pub"); got != filepath.Join("/srv/santa", "keys/chris.pub") {
		t.Errorf("relative path not joined, got %q", got)
	}
	if got := ResolvePath("/srv/santa", "/etc/keys/chris.pub"); got != "/etc/keys/chris.pub" {
		t.Errorf("absolute path should be unchanged, got %q", got)
	}
	if got := ResolvePath("/srv/santa", ""); got != "" {
		t.Errorf("empty path should stay empty, got %q", got)
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dirs: %v", err)
	}
	configPath := filepath.Join(root, "kringle.toml")
	if err := os.WriteFile(configPath, []byte("[exchange]\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalWd) })

	if err := os.Chdir(nested); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}

	found, err := FindConfigFile("kringle.toml")
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}
	// Resolve symlinks so macOS /private/var temp dirs compare equal.
	wantPath, _ := filepath.EvalSymlinks(configPath)
	gotPath, _ := filepath.EvalSymlinks(found)
	if gotPath != wantPath {
		t.Errorf("FindConfigFile() = %q, want %q", found, configPath)
	}

	missing, err := FindConfigFile("does-not-exist.toml")
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}
	if missing != "" {
		t.Errorf("expected empty result for a missing file, got %q", missing)
	}
}

func TestIsGroupOrWorldAccessible(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "private.pem")
	if err := os.WriteFile(path, []byte("key"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	loose, _, err := IsGroupOrWorldAccessible(path)
	if err != nil {
		t.Fatalf("IsGroupOrWorldAccessible failed: %v", err)
	}
	if loose {
		t.Error("0600 file should not be reported as accessible to others")
	}

	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	loose, perm, err := IsGroupOrWorldAccessible(path)
	if err != nil {
		t.Fatalf("IsGroupOrWorldAccessible failed: %v", err)
	}
	if !loose {
		t.Errorf("0644 file should be reported as accessible to others, got perm %o", perm)
	}
}
