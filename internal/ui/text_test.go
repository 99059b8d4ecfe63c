package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	color.NoColor = false

	result := Code.Sprint("kringle assign")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "kringle reveal", "`kringle reveal`"},
		{"Path has no decoration", Path, "assignments/zuz", "assignments/zuz"},
		{"Flag has no decoration", Flag, "--reveal", "--reveal"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Name adds quotes", Name, "Zuz", "'Zuz'"},
		{"Muted adds parentheses", Muted, "12 attempts", "(12 attempts)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatterSprintf(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	result := Code.Sprintf("kringle %s", "check")
	want := "`kringle check`"
	if result != want {
		t.Errorf("Code.Sprintf() = %q, want %q", result, want)
	}
}

func TestGlyphsWithNoColor(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	if Tick() != "✓" || Cross() != "✗" || Arrow() != "→" {
		t.Errorf("unexpected glyphs: %q %q %q", Tick(), Cross(), Arrow())
	}
}

func TestBanner(t *testing.T) {
	art := Banner("Zuz")
	if !strings.HasSuffix(art, "\n") {
		t.Error("Banner output should end with a newline")
	}
	if strings.Count(art, "\n") < 3 {
		t.Errorf("Banner output should span several lines, got %q", art)
	}
}

func TestEnsureNewline(t *testing.T) {
	if got := EnsureNewline("done"); got != "done\n" {
		t.Errorf("EnsureNewline(%q) = %q", "done", got)
	}
	if got := EnsureNewline("done\n"); got != "done\n" {
		t.Errorf("EnsureNewline should not add a second newline, got %q", got)
	}
}
