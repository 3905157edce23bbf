package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	body []byte
	err  error
}

func (f *fakeFetcher) FetchOTM(ctx context.Context, ref string) ([]byte, error) {
	return f.body, f.err
}

const otmText = `otmVersion: "0.2.0"
project:
  id: acme-app
  name: Acme App
components:
  - id: web
    name: Web
    type: web-service
`

func TestExportOTMReturnsTextVerbatim(t *testing.T) {
	p := New(&fakeFetcher{body: []byte(otmText)})

	out, err := p.Export(context.Background(), "acme-app", FormatOTM)
	require.NoError(t, err)
	assert.Equal(t, otmText, string(out))
}

func TestExportJSONReserializes(t *testing.T) {
	p := New(&fakeFetcher{body: []byte(otmText)})

	out, err := p.Export(context.Background(), "acme-app", FormatJSON)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	project := doc["project"].(map[string]any)
	assert.Equal(t, "acme-app", project["id"])
	assert.Contains(t, string(out), "  ") // indented
}

func TestExportJSONFallsBackOnUnconvertibleText(t *testing.T) {
	// Tab indentation defeats the YAML parse; the export must still
	// succeed with the original text.
	raw := []byte("project:\n\tid: broken\n")
	p := New(&fakeFetcher{body: raw})

	out, err := p.Export(context.Background(), "acme-app", FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestExportPropagatesFetchErrors(t *testing.T) {
	boom := errors.New("fetch failed")
	p := New(&fakeFetcher{err: boom})

	_, err := p.Export(context.Background(), "acme-app", FormatOTM)
	assert.ErrorIs(t, err, boom)
}

func TestToJSONStableIndentation(t *testing.T) {
	out, err := ToJSON([]byte("a: 1\nb:\n  - x\n  - y\n"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1, "b": ["x", "y"]}`, string(out))
}
