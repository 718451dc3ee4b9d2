package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cassette/internal/manifest"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets", "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "css", "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "css", "print.css"), []byte("@media"), 0o644))
	cfg := filepath.Join(dir, "cassette.hcl")
	require.NoError(t, os.WriteFile(cfg, []byte(`
root = "assets"

source "styles" {
  kind         = "stylesheet"
  base_path    = "css"
  file_pattern = "*.css"
}
`), 0o644))
	return cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		discoverJSON = false
		rootDir = ""
		selector = ""
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDiscoverCommand(t *testing.T) {
	out, err := run(t, "discover", "--config", writeProject(t))
	require.NoError(t, err)
	assert.Equal(t,
		"styles\t~/css/print\t~/css/print.css\n"+
			"styles\t~/css/site\t~/css/site.css\n",
		out)
}

func TestDiscoverCommand_JSON(t *testing.T) {
	out, err := run(t, "discover", "--config", writeProject(t), "--json")
	require.NoError(t, err)

	v, err := oj.ParseString(out)
	require.NoError(t, err)
	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)

	first := list[0].(map[string]any)
	assert.Equal(t, "styles", first["source"])
	assert.Equal(t, "stylesheet", first["kind"])
	assert.Equal(t, "~/css/print", first["module"])
}

func TestDiscoverCommand_MissingConfig(t *testing.T) {
	_, err := run(t, "discover", "--config", filepath.Join(t.TempDir(), "nope.hcl"))
	assert.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	cfg := writeProject(t)
	db := filepath.Join(t.TempDir(), "manifest.db")

	_, err := run(t, "build", db, "--config", cfg)
	require.NoError(t, err)

	entries, err := manifest.Load(db)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "~/css/print", entries[0].Module)
	assert.Equal(t, "css/print.css", entries[0].File)
}
