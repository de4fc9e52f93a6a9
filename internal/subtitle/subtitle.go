// Package subtitle extracts referenced font face names from ASS/SSA
// subtitle scripts. The grammar is line-oriented but irregular; the
// extractor is a single permissive pass that skips anything it does not
// recognize.
package subtitle

import (
	"strings"
)

// IsSubtitleFile reports whether path carries a recognized subtitle
// extension.
func IsSubtitleFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".ass") || strings.HasSuffix(lower, ".ssa")
}

// ExtractFonts scans an already-decoded subtitle script and calls emit once
// per font face reference found. Names are trimmed and have a leading '@'
// (vertical-writing marker) stripped; empty names are dropped. The caller is
// responsible for deduplication.
//
// Two sources of references are recognized:
//   - the second comma-separated field of Style: lines inside the
//     [V4 Styles] / [V4+ Styles] sections
//   - \fn overrides inside {...} blocks of Dialogue: lines
func ExtractFonts(text string, emit func(name string)) {
	inStyles := false
	for len(text) > 0 {
		var line string
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			line, text = text, ""
		}
		line = strings.TrimRight(line, "\r")
		line = strings.TrimLeft(line, " \t")

		switch {
		case strings.HasPrefix(line, "["):
			inStyles = isStylesSection(line)
		case inStyles && hasFoldPrefix(line, "Style:"):
			styleFont(line[len("Style:"):], emit)
		case hasFoldPrefix(line, "Dialogue:"):
			dialogueFonts(line[len("Dialogue:"):], emit)
		}
	}
}

func isStylesSection(line string) bool {
	line = strings.TrimRight(line, " \t")
	return strings.EqualFold(line, "[V4 Styles]") || strings.EqualFold(line, "[V4+ Styles]")
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// styleFont emits the font field of a Style: line. The first field is the
// style name, the second the font face.
func styleFont(rest string, emit func(string)) {
	fields := strings.Split(rest, ",")
	if len(fields) < 2 {
		return
	}
	emitName(fields[1], emit)
}

// dialogueFonts emits every \fn override found inside {...} blocks. The name
// runs until the next '\', the closing '}', or end of line.
func dialogueFonts(rest string, emit func(string)) {
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return
		}
		block := rest[open+1:]
		end := strings.IndexByte(block, '}')
		if end >= 0 {
			rest = block[end+1:]
			block = block[:end]
		} else {
			rest = ""
		}
		for {
			fn := strings.Index(block, `\fn`)
			if fn < 0 {
				break
			}
			name := block[fn+3:]
			if bs := strings.IndexByte(name, '\\'); bs >= 0 {
				block = name[bs:]
				name = name[:bs]
			} else {
				block = ""
			}
			emitName(name, emit)
		}
		if rest == "" {
			return
		}
	}
}

func emitName(name string, emit func(string)) {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "@")
	if name == "" {
		return
	}
	emit(name)
}
