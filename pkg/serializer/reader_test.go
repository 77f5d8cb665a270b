package serializer

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Kind string `json:"kind" yaml:"kind"`
	Spec struct {
		Package string         `json:"package" yaml:"package"`
		Vars    map[string]any `json:"variants" yaml:"variants"`
	} `json:"spec" yaml:"spec"`
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"request.json":                      FormatJSON,
		"request.YAML":                      FormatYAML,
		"request.yml":                       FormatYAML,
		"out.table":                         FormatTable,
		"out.txt":                           FormatTable,
		"noext":                             FormatJSON,
		"https://example.com/r.yaml?ref=v1": FormatYAML,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestNewReaderRejectsUnreadableFormats(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)
	_, err = NewReader("xml", strings.NewReader(""))
	assert.Error(t, err)
	_, err = NewFileReader(FormatTable, "x.table")
	assert.Error(t, err)
}

func TestReaderDeserialize(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("kind: BuildRequest\nspec:\n  package: boutpp\n"))
	require.NoError(t, err)
	var d doc
	require.NoError(t, r.Deserialize(&d))
	assert.Equal(t, "boutpp", d.Spec.Package)
	assert.NoError(t, r.Close())

	r, err = NewReader(FormatJSON, strings.NewReader("{"))
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(&d))

	var nilReader *Reader
	assert.Error(t, nilReader.Deserialize(&d))
	assert.NoError(t, nilReader.Close())
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "req.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("kind: BuildRequest\nspec:\n  package: boutpp\n  variants:\n    petsc: true\n"), 0o600))
	d, err := FromFile[doc](yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "boutpp", d.Spec.Package)
	assert.Equal(t, true, d.Spec.Vars["petsc"])

	jsonPath := filepath.Join(dir, "req.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"spec":{"package":"hermes-3"}}`), 0o600))
	d, err = FromFile[doc](jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "hermes-3", d.Spec.Package)

	_, err = FromFile[doc](filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	_, err = FromFile[doc](bad)
	assert.Error(t, err)
}

func TestFromFileURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/req.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("spec:\n  package: boutpp\n")) //nolint:errcheck
	}))
	defer srv.Close()

	d, err := FromFile[doc](srv.URL + "/req.yaml")
	require.NoError(t, err)
	assert.Equal(t, "boutpp", d.Spec.Package)

	_, err = FromFile[doc](srv.URL + "/missing.yaml")
	assert.Error(t, err)
}
