package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYAMLExtractorFindsID(t *testing.T) {
	id, ok := YAMLExtractor{}.ProjectID([]byte("otmVersion: \"0.2.0\"\nproject:\n  id: acme-app\n  name: Acme App\n"))
	assert.True(t, ok)
	assert.Equal(t, "acme-app", id)
}

func TestYAMLExtractorExplicitlyEmptyID(t *testing.T) {
	// An empty id is a declared identity, not an indeterminate one.
	id, ok := YAMLExtractor{}.ProjectID([]byte("project:\n  id: \"\"\n  name: Acme App\n"))
	assert.True(t, ok)
	assert.Equal(t, "", id)
}

func TestYAMLExtractorIndeterminate(t *testing.T) {
	cases := map[string]string{
		"no project block": "otmVersion: \"0.2.0\"\ncomponents: []\n",
		"no id key":        "project:\n  name: Acme App\n",
		"not yaml":         "project:\n\tid: broken\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := YAMLExtractor{}.ProjectID([]byte(src))
			assert.False(t, ok)
		})
	}
}

func TestRegexExtractorBareValue(t *testing.T) {
	id, ok := RegexExtractor{}.ProjectID([]byte("otmVersion: \"0.2.0\"\nproject:\n  name: Acme App\n  id: acme-app\n"))
	assert.True(t, ok)
	assert.Equal(t, "acme-app", id)
}

func TestRegexExtractorQuotedValue(t *testing.T) {
	id, ok := RegexExtractor{}.ProjectID([]byte("project:\n  id: \"acme-app\"\n  name: Acme\n"))
	assert.True(t, ok)
	assert.Equal(t, "acme-app", id)

	id, ok = RegexExtractor{}.ProjectID([]byte("project:\n  id: 'acme-app'\n"))
	assert.True(t, ok)
	assert.Equal(t, "acme-app", id)
}

func TestRegexExtractorIgnoresOtherIDKeys(t *testing.T) {
	// id keys outside the project block must not be picked up.
	src := []byte(`otmVersion: "0.2.0"
components:
  - id: web
    name: Web
project:
  id: acme-app
`)
	id, ok := RegexExtractor{}.ProjectID(src)
	assert.True(t, ok)
	assert.Equal(t, "acme-app", id)
}

func TestRegexExtractorIndeterminate(t *testing.T) {
	_, ok := RegexExtractor{}.ProjectID([]byte("components:\n  - id: web\n"))
	assert.False(t, ok)

	_, ok = RegexExtractor{}.ProjectID([]byte("project:\n  name: Acme\nthreats: []\n"))
	assert.False(t, ok)
}

func TestRegexExtractorWorksOnUnparseableText(t *testing.T) {
	// Tab indentation breaks YAML parsing, the regex path still resolves.
	id, ok := RegexExtractor{}.ProjectID([]byte("project:\n  id: acme-app\nbad:\n\tindent: true\n"))
	assert.True(t, ok)
	assert.Equal(t, "acme-app", id)
}
