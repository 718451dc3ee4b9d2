package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cassette/api"
	"github.com/agentic-research/cassette/internal/bundle"
	"github.com/agentic-research/cassette/internal/vfs"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_HCL(t *testing.T) {
	path := writeConfig(t, "cassette.hcl", `
version = "v1"
root    = "assets"

source "scripts" {
  kind         = "script"
  base_path    = "~/scripts"
  file_pattern = "*.js;*.coffee"
  exclude      = "\\.min\\.js$"
}

source "styles" {
  kind      = "stylesheet"
  base_path = "styles"
  search    = "top"
}
`)

	b, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "v1", b.Version)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "assets"), b.Root)
	require.Len(t, b.Sources, 2)
	assert.Equal(t, api.Source{
		Name:        "scripts",
		Kind:        "script",
		BasePath:    "~/scripts",
		FilePattern: "*.js;*.coffee",
		Exclude:     `\.min\.js$`,
	}, b.Sources[0])
	assert.Equal(t, "top", b.Sources[1].Search)
}

func TestLoad_HCLMissingBasePath(t *testing.T) {
	path := writeConfig(t, "cassette.hcl", `
source "scripts" {
  kind = "script"
}
`)
	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "cassette.json", `{
  "version": "v1",
  "sources": [
    {"name": "scripts", "kind": "script", "base_path": "scripts", "file_pattern": "*.js"},
    {"base_path": "~/templates", "kind": "htmltemplate"}
  ]
}`)

	b, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(path), b.Root)
	require.Len(t, b.Sources, 2)
	assert.Equal(t, "scripts", b.Sources[0].Name)
	assert.Equal(t, "*.js", b.Sources[0].FilePattern)
	assert.Equal(t, "~/templates", b.Sources[1].Name, "name defaults to base_path")
}

func TestLoad_JSONSelector(t *testing.T) {
	path := writeConfig(t, "site.json", `{
  "root": "/srv/site",
  "bundles": {
    "scripts": [{"name": "app", "base_path": "js"}],
    "styles":  [{"name": "site", "base_path": "css", "kind": "stylesheet"}]
  }
}`)

	b, err := Load(path, "$.bundles.styles[*]")
	require.NoError(t, err)

	assert.Equal(t, "/srv/site", b.Root)
	require.Len(t, b.Sources, 1)
	assert.Equal(t, "site", b.Sources[0].Name)
	assert.Equal(t, "css", b.Sources[0].BasePath)
}

func TestLoad_JSONErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		selector string
	}{
		{"malformed", `{"sources": [`, ""},
		{"non-object match", `{"sources": ["scripts"]}`, ""},
		{"wrong field type", `{"sources": [{"base_path": 3}]}`, ""},
		{"missing base_path", `{"sources": [{"name": "x"}]}`, ""},
		{"bad selector", `{"sources": []}`, "$.sources[1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "c.json", tt.content)
			_, err := Load(path, tt.selector)
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "cassette.yaml", "sources: []")
	_, err := Load(path, "")
	assert.ErrorContains(t, err, "unsupported extension")
}

func TestCompile(t *testing.T) {
	c, err := Compile(api.Source{
		Name:        "scripts",
		Kind:        "script",
		BasePath:    "scripts/",
		FilePattern: "*.js",
		Exclude:     `\.min\.js$`,
		Search:      "top",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "scripts", c.Name)
	assert.Equal(t, bundle.KindScript, c.Kind)
	assert.Equal(t, "~/scripts", c.Source.BasePath())
	assert.Equal(t, "*.js", c.Source.FilePattern())
	assert.Equal(t, vfs.TopDirectoryOnly, c.Source.SearchOption())
	require.NotNil(t, c.Source.Exclude())
	assert.True(t, c.Source.Exclude().MatchString("lib/app.min.js"))
	assert.Equal(t, bundle.KindScript, c.Factory.CreateModule("~/x").Kind())
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(api.Source{Name: "a", BasePath: "a", Kind: "coffee"}, nil)
	assert.ErrorContains(t, err, "unknown module kind")

	_, err = Compile(api.Source{Name: "a", BasePath: "a", Search: "deep"}, nil)
	assert.ErrorContains(t, err, "unknown search option")

	_, err = Compile(api.Source{Name: "a", BasePath: "a", Exclude: "("}, nil)
	assert.ErrorContains(t, err, "compile exclude")
}

func TestCompileAll_PreservesOrder(t *testing.T) {
	compiled, err := CompileAll(&api.Bundle{Sources: []api.Source{
		{Name: "b", BasePath: "b"},
		{Name: "a", BasePath: "a"},
	}}, nil)
	require.NoError(t, err)
	require.Len(t, compiled, 2)
	assert.Equal(t, "b", compiled[0].Name)
	assert.Equal(t, "a", compiled[1].Name)
}

func TestParseSearchOption(t *testing.T) {
	o, err := ParseSearchOption("")
	require.NoError(t, err)
	assert.Equal(t, vfs.AllDirectories, o)

	o, err = ParseSearchOption("TOP")
	require.NoError(t, err)
	assert.Equal(t, vfs.TopDirectoryOnly, o)
}
