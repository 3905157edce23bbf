package layout

import (
	"regexp"
	"strings"
)

// representationsKey matches a representations mapping key, either as a
// plain key or as the first key of a sequence item. Group 3 captures an
// inline (single-line) value when present.
var representationsKey = regexp.MustCompile(`^(\s*)(- )?representations:\s*(\S.*)?$`)

// StripText removes representations blocks from raw YAML text with a
// line-oriented pass. This is the best-effort fallback used when the text
// does not parse as a document; unusual indentation inside a block can
// defeat it. Prefer StripSource, which only falls back here on parse
// failure.
func StripText(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		m := representationsKey.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}
		if inline := m[3]; inline != "" && !strings.HasPrefix(inline, "#") {
			// Single-line variant (flow sequence or scalar): drop just this line.
			continue
		}
		// Block variant: consume every following line indented deeper than
		// the key. Blank lines inside the block are consumed too.
		keyIndent := len(m[1])
		if m[2] != "" {
			keyIndent += len(m[2])
		}
		for i+1 < len(lines) {
			next := lines[i+1]
			if strings.TrimSpace(next) == "" {
				i++
				continue
			}
			if indentOf(next) > keyIndent {
				i++
				continue
			}
			break
		}
	}

	return []byte(strings.Join(out, "\n"))
}

// HasLayoutText reports whether the raw text contains a representations
// key, using the same recognizer as StripText.
func HasLayoutText(src []byte) bool {
	for _, line := range strings.Split(string(src), "\n") {
		if representationsKey.MatchString(line) {
			return true
		}
	}
	return false
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
