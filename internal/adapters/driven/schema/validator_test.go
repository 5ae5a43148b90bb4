package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/xwb/internal/core/domain"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc any
	require.NoError(t, dec.Decode(&doc))
	return doc
}

func TestNewValidator_Embedded(t *testing.T) {
	v, err := NewValidator("")
	require.NoError(t, err)
	assert.Equal(t, embeddedURL, v.Source())
}

func TestValidator_Valid(t *testing.T) {
	v, err := NewValidator("")
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "minimal",
			doc:  `{"faction":"rebel","pilots":[]}`,
		},
		{
			name: "full",
			doc: `{
				"version":"1.0.0","name":"Rogue","description":"d","faction":"rebel","points":100,
				"obstacles":["coreasteroid0"],
				"vendor":{"xwb":{"url":"https://somewhere.com"}},
				"pilots":[{"name":"lukeskywalker","ship":"xwing","points":28,
					"upgrades":{"amd":["r2d2"],"ept":[]},
					"vendor":{"xwb":{"xwing_data_pilot_id":2}}}]
			}`,
		},
		{
			name: "unknown top-level fields are allowed",
			doc:  `{"faction":"scum","pilots":[],"extra":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(decode(t, tt.doc)))
		})
	}
}

func TestValidator_Invalid(t *testing.T) {
	v, err := NewValidator("")
	require.NoError(t, err)

	tests := []struct {
		name     string
		doc      string
		location string
	}{
		{name: "missing pilots", doc: `{"faction":"rebel"}`, location: "/"},
		{name: "bad faction", doc: `{"faction":"firstorder","pilots":[]}`, location: "/faction"},
		{name: "version not a string", doc: `{"faction":"rebel","pilots":[],"version":1}`, location: "/version"},
		{name: "pilot missing ship", doc: `{"faction":"rebel","pilots":[{"name":"x"}]}`, location: "/pilots/0"},
		{name: "upgrade not a string", doc: `{"faction":"rebel","pilots":[{"name":"x","ship":"y","upgrades":{"amd":[1]}}]}`, location: "/pilots/0/upgrades/amd/0"},
		{name: "negative points", doc: `{"faction":"rebel","pilots":[],"points":-1}`, location: "/points"},
		{name: "not an object", doc: `["a"]`, location: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(decode(t, tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSchemaValidation)

			var sve *domain.SchemaValidationError
			require.ErrorAs(t, err, &sve)
			require.NotEmpty(t, sve.Causes)

			found := false
			for _, cause := range sve.Causes {
				if strings.HasPrefix(cause, tt.location+":") {
					found = true
				}
			}
			assert.True(t, found, "causes %v should mention %s", sve.Causes, tt.location)
		})
	}
}

func TestValidator_GoValues(t *testing.T) {
	v, err := NewValidator("")
	require.NoError(t, err)

	doc := map[string]any{
		"faction": "rebel",
		"pilots": []any{map[string]any{
			"name":   "lukeskywalker",
			"ship":   "xwing",
			"points": 28,
		}},
	}
	assert.NoError(t, v.Validate(doc))
}

func TestNewValidator_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"$schema": "http://json-schema.org/draft-04/schema#",
		"type": "object",
		"required": ["pilots"]
	}`), 0600))

	v, err := NewValidator(path)
	require.NoError(t, err)

	assert.NoError(t, v.Validate(decode(t, `{"pilots":[]}`)))
	assert.ErrorIs(t, v.Validate(decode(t, `{}`)), domain.ErrSchemaValidation)
}

func TestNewValidator_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewValidator(filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, domain.ErrDataLoad)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("not json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

		_, err := NewValidator(path)
		var loadErr *domain.DataLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "schema", loadErr.Collection)
	})

	t.Run("invalid schema", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"type": 12}`), 0600))

		_, err := NewValidator(path)
		assert.ErrorIs(t, err, domain.ErrDataLoad)
	})
}

func TestEmbeddedSchema(t *testing.T) {
	raw := EmbeddedSchema()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "object", doc["type"])

	raw[0] = 'x'
	assert.Equal(t, byte('{'), EmbeddedSchema()[0])
}
