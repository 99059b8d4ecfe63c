package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndLoadTOML(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.toml")

	type TestStruct struct {
		Name  string
		Group string
	}

	originalData := TestStruct{Name: "Chris", Group: "1"}

	if err := SaveTOML(testFile, originalData); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loadedData := TestStruct{}
	if err := LoadTOML(testFile, &loadedData); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}

	if loadedData != originalData {
		t.Errorf("Expected %+v, got %+v", originalData, loadedData)
	}
}

func TestLoadTOMLNonExistent(t *testing.T) {
	type TestStruct struct {
		Name string
	}

	data := TestStruct{}
	if err := LoadTOML(filepath.Join(t.TempDir(), "nonexistent.toml"), &data); err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
}

func TestLoadTOMLRejectsUnknownKeys(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.toml")
	if err := os.WriteFile(testFile, []byte("name = \"Chris\"\ngorup = \"1\"\n"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	type TestStruct struct {
		Name string `toml:"name"`
	}

	data := TestStruct{}
	err := LoadTOML(testFile, &data)
	if err == nil {
		t.Fatal("Expected error for unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "gorup") {
		t.Errorf("Expected error to name the unknown key, got: %v", err)
	}
}

func TestSaveTOMLCreatesDirectory(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "subdir", "test.toml")

	type TestStruct struct {
		Name string
	}

	if err := SaveTOML(testFile, TestStruct{Name: "Test"}); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("File was not created")
	}
}
