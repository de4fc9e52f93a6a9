package sfnt

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// NameFromFilename derives a face name from a font's filename, for fonts
// whose naming tables yield nothing usable. "SourceCodePro-Bold.ttf"
// becomes "Source Code Pro Bold".
func NameFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	// Drop variation parameters like "[wght]".
	if idx := strings.Index(name, "["); idx != -1 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, "-webfont")

	// Split compressed camel-case names: "SourceCodePro" -> "Source Code Pro".
	name = camelBoundary.ReplaceAllString(name, `$1 $2`)

	parts := strings.Split(name, "-")
	if len(parts) > 1 {
		style := cases.Title(language.English, cases.NoLower).String(parts[len(parts)-1])
		name = strings.Join(parts[:len(parts)-1], "-") + " " + style
	}
	return strings.TrimSpace(name)
}
