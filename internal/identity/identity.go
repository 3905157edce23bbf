// Package identity resolves the project id an OTM document declares.
// Two extractor variants share one contract: the structured variant parses
// the document, the regex variant scans the text. Both report "cannot
// determine identity" as ok=false rather than as an error, so callers can
// distinguish an indeterminate document from an explicitly empty id.
package identity

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extractor resolves a document's project id from raw text.
type Extractor interface {
	// ProjectID returns the declared project id. ok is false when the
	// source does not yield an identity at all.
	ProjectID(src []byte) (id string, ok bool)
}

// YAMLExtractor reads project.id through a full document parse.
type YAMLExtractor struct{}

func (YAMLExtractor) ProjectID(src []byte) (string, bool) {
	// Pointer fields keep "key absent" apart from "key present but empty":
	// an explicitly empty id is a declared identity (schema validation
	// rejects it later), a missing project or id key is indeterminate.
	var probe struct {
		Project *struct {
			ID *string `yaml:"id"`
		} `yaml:"project"`
	}
	if err := yaml.Unmarshal(src, &probe); err != nil {
		return "", false
	}
	if probe.Project == nil || probe.Project.ID == nil {
		return "", false
	}
	return *probe.Project.ID, true
}

// RegexExtractor scans the text for a project block with an id key. It is
// the fallback for sources that do not parse as YAML and is best-effort by
// design.
type RegexExtractor struct{}

var (
	projectBlock = regexp.MustCompile(`(?m)^project:\s*$`)
	projectIDKey = regexp.MustCompile(`(?m)^[ \t]+id:[ \t]*["']?([^"'\r\n#]*?)["']?[ \t]*(?:#.*)?$`)
)

func (RegexExtractor) ProjectID(src []byte) (string, bool) {
	text := string(src)
	loc := projectBlock.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	block := blockAfter(text[loc[1]:])
	m := projectIDKey.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// blockAfter returns the indented block that follows a top-level key: every
// line up to the next non-blank line at column zero.
func blockAfter(rest string) string {
	var b strings.Builder
	for _, line := range strings.Split(rest, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// FromFile runs the extractor against a file path.
func FromFile(e Extractor, path string) (string, bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	id, ok := e.ProjectID(src)
	return id, ok, nil
}
