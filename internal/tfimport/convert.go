package tfimport

import (
	"strings"

	"github.com/otm-exchange/otmctl/internal/otm"
	"github.com/otm-exchange/otmctl/internal/result"
)

// Options configures a conversion.
type Options struct {
	// ProjectID and ProjectName identify the generated OTM project.
	ProjectID   string
	ProjectName string
	// OTMVersion declared in the output document.
	OTMVersion string
}

// DefaultOptions returns conversion defaults; the project identity must
// still be supplied by the caller.
func DefaultOptions() Options {
	return Options{OTMVersion: "0.2.0"}
}

// Converter turns Terraform source files into an OTM skeleton document.
type Converter struct {
	opts Options
	reg  *Registry
}

// New returns a converter with the given options.
func New(opts Options) *Converter {
	if opts.OTMVersion == "" {
		opts.OTMVersion = "0.2.0"
	}
	return &Converter{opts: opts, reg: DefaultRegistry}
}

// Convert parses the files, orders resources by reference, and maps each
// through its registered mapper. Unsupported resource types are skipped
// with a warning: Terraform modules legitimately contain many resources
// with no threat-model counterpart.
func (c *Converter) Convert(files map[string][]byte) *result.ConvertResult {
	out := &result.ConvertResult{Success: true}

	resources, err := ParseFiles(files)
	if err != nil {
		out.Success = false
		out.Errors = append(out.Errors, result.Error{
			Type: "parse_error", Severity: "error", Message: err.Error(),
		})
		return out
	}

	ordered, err := orderResources(resources)
	if err != nil {
		out.Success = false
		out.Errors = append(out.Errors, result.Error{
			Type: "dependency_error", Severity: "error", Message: err.Error(),
			Suggestion: "Remove circular references between resources",
		})
		return out
	}

	doc := &otm.Document{
		OTMVersion: c.opts.OTMVersion,
		Project: otm.Project{
			ID:   c.opts.ProjectID,
			Name: c.opts.ProjectName,
		},
	}
	b := newBuilder(doc)

	for _, r := range ordered {
		m, ok := c.reg.Get(r.Type)
		if !ok {
			out.Warnings = append(out.Warnings, result.Warning{
				Type: "unsupported_resource", Severity: "warning", Path: r.Address(),
				Message:    "no OTM mapping for resource type " + r.Type + ", skipped",
				Suggestion: "Supported types: " + strings.Join(c.reg.SupportedTypes(), ", "),
			})
			continue
		}
		if err := m.Map(r, b); err != nil {
			out.Success = false
			out.Errors = append(out.Errors, result.Error{
				Type: "mapping_error", Severity: "error", Path: r.Address(), Message: err.Error(),
			})
		}
	}
	if !out.Success {
		return out
	}
	b.finish()

	for _, re := range otm.ValidateRefs(doc) {
		out.Success = false
		out.Errors = append(out.Errors, result.Error{
			Type: re.Type, Severity: re.Severity, Path: re.ElementID,
			Message: re.Message, Suggestion: re.Suggestion,
		})
	}
	if !out.Success {
		return out
	}

	text, err := otm.Marshal(doc)
	if err != nil {
		out.Success = false
		out.Errors = append(out.Errors, result.Error{
			Type: "encoding_error", Severity: "error", Message: err.Error(),
		})
		return out
	}
	out.Document = text
	return out
}
