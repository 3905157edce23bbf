// Package schema validates OTM document text against the embedded OTM
// JSON Schema. Validation is a selectable strategy: SchemaValidator does
// the real check, NoopValidator stands in for runtimes where validation is
// deliberately not performed. The two cases stay distinguishable through
// the three-valued Outcome.
package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed otm_schema.json
var otmSchemaJSON string

// Outcome is the result class of a validation run.
type Outcome int

const (
	// OutcomeSkipped means validation was not performed at all. It is not
	// a pass: callers needing "provably valid" must check OutcomePassed.
	OutcomeSkipped Outcome = iota
	OutcomePassed
	OutcomeFailed
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Report is the result of validating one document.
type Report struct {
	Outcome Outcome
	// Errors holds path-qualified messages ("At '<path>': <message>"),
	// populated only when Outcome is OutcomeFailed.
	Errors []string
}

// Validator validates raw OTM document text.
type Validator interface {
	Validate(src []byte) Report
}

// NoopValidator performs no validation and always reports OutcomeSkipped.
type NoopValidator struct{}

func (NoopValidator) Validate([]byte) Report {
	return Report{Outcome: OutcomeSkipped}
}

// SchemaValidator validates documents against the embedded OTM schema,
// collecting every violation rather than stopping at the first.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("otm.schema.json", strings.NewReader(otmSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	s, err := c.Compile("otm.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile otm schema: %w", err)
	}
	return &SchemaValidator{schema: s}, nil
}

func (v *SchemaValidator) Validate(src []byte) Report {
	// Text that does not parse as YAML is a validation failure, not a
	// separate error class.
	var raw any
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return Report{Outcome: OutcomeFailed, Errors: []string{
			fmt.Sprintf("At 'root': document is not valid YAML: %v", err),
		}}
	}

	// Round-trip through JSON so the instance carries the value types the
	// schema library expects (YAML integers, non-string map keys).
	doc, err := toJSONValue(raw)
	if err != nil {
		return Report{Outcome: OutcomeFailed, Errors: []string{
			fmt.Sprintf("At 'root': %v", err),
		}}
	}

	err = v.schema.Validate(doc)
	if err == nil {
		return Report{Outcome: OutcomePassed}
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return Report{Outcome: OutcomeFailed, Errors: []string{
			fmt.Sprintf("At 'root': %v", err),
		}}
	}
	return Report{Outcome: OutcomeFailed, Errors: renderCauses(ve)}
}

// renderCauses flattens the cause tree into leaf messages, each rendered
// as "At '<dot-or-bracket-path>': <message>".
func renderCauses(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, fmt.Sprintf("At '%s': %s", renderPath(e.InstanceLocation), e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}

// renderPath converts a JSON pointer ("/components/0/id") into dot-and-
// bracket form ("components[0].id"). The empty pointer renders as "root".
func renderPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return "root"
	}
	var b strings.Builder
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		if _, err := strconv.Atoi(tok); err == nil {
			fmt.Fprintf(&b, "[%s]", tok)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(tok)
	}
	if b.Len() == 0 {
		return "root"
	}
	return b.String()
}

// toJSONValue normalizes a yaml.v3 value into the encoding/json value
// space.
func toJSONValue(v any) (any, error) {
	buf, err := json.Marshal(normalizeKeys(v))
	if err != nil {
		return nil, fmt.Errorf("document is not representable as JSON: %w", err)
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeKeys rewrites map[any]any nodes (produced by yaml.v3 for
// non-string keys) into map[string]any so they marshal as JSON objects.
func normalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeKeys(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeKeys(val)
		}
		return out
	default:
		return v
	}
}
