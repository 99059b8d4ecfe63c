package utils

import (
	"regexp"
	"strings"
)

var (
	unsafeFileChars = regexp.MustCompile(`[^a-z0-9\-_]`)
	repeatedHyphens = regexp.MustCompile(`-+`)
)

// SanitizeFileName lowercases name and strips anything that is not safe in a
// file name. Spaces become hyphens.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = unsafeFileChars.ReplaceAllString(name, "")
	name = repeatedHyphens.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if name == "" {
		name = "participant"
	}

	return name
}
