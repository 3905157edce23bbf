// Package export fetches a project's OTM document from the platform and
// optionally reserializes it as JSON.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/otm-exchange/otmctl/internal/logger"
)

// Format selects the export rendering.
type Format string

const (
	FormatOTM  Format = "otm"
	FormatJSON Format = "json"
)

// Fetcher retrieves a project's OTM text.
type Fetcher interface {
	FetchOTM(ctx context.Context, ref string) ([]byte, error)
}

// Pipeline exports remote documents.
type Pipeline struct {
	fetcher Fetcher
	log     *slog.Logger
}

// New returns a pipeline over the given fetcher.
func New(f Fetcher) *Pipeline {
	return &Pipeline{fetcher: f, log: logger.Default}
}

// Export fetches the document and renders it in the requested format. The
// JSON rendering is cosmetic: if the fetched text cannot be converted, the
// original text is returned unchanged rather than failing the export.
func (p *Pipeline) Export(ctx context.Context, ref string, format Format) ([]byte, error) {
	src, err := p.fetcher.FetchOTM(ctx, ref)
	if err != nil {
		return nil, err
	}
	if format != FormatJSON {
		return src, nil
	}
	out, err := ToJSON(src)
	if err != nil {
		p.log.Warn("json conversion failed, returning original text", "ref", ref, "error", err)
		return src, nil
	}
	return out, nil
}

// ToJSON reserializes YAML text as indented JSON.
func ToJSON(src []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out, err := json.MarshalIndent(normalizeKeys(raw), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return out, nil
}

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
