package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/librarybot/core/buildinfo"
	"github.com/m3rciful/librarybot/internal/catalog"
)

const sampleCatalog = `{
  "categories": [
    {
      "id": "aqidah",
      "title": "Акыда",
      "books": [
        {"id": "kitab-at-tawhid", "title": "Kitab At-Tawhid", "author": "Ibn Abdul-Wahhab",
         "description": "", "format": "PDF", "file_reference": "F1", "file_name": "tawhid.pdf"}
      ]
    }
  ]
}`

// workspace writes a file-driver config and returns its path and the catalog path.
func workspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	store := filepath.Join(dir, "catalog.json")
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "catalog:\n  driver: file\n  path: " + store + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, store
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "librarybot "+buildinfo.Summary()+"\n", out)
}

func TestConfigPathPrecedence(t *testing.T) {
	flagConfig = ""
	t.Setenv(envConfigPath, "")
	assert.Equal(t, defaultConfigPath, configPath())

	t.Setenv(envConfigPath, "env.yaml")
	assert.Equal(t, "env.yaml", configPath())

	flagConfig = "flag.yaml"
	t.Cleanup(func() { flagConfig = "" })
	assert.Equal(t, "flag.yaml", configPath())
}

func TestRunOptionsUseResolvedPath(t *testing.T) {
	opts := runOptions("custom.yaml")
	assert.Equal(t, "custom.yaml", opts.ConfigPath)
	assert.Equal(t, envConfigPath, opts.ConfigEnvVar)
	assert.NotNil(t, opts.LoadConfig)
	assert.NotNil(t, opts.Bootstrap)
}

func TestCatalogImportAndValidate(t *testing.T) {
	cfgPath, store := workspace(t)
	src := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(src, []byte(sampleCatalog), 0o644))

	_, err := execute(t, "--config", cfgPath, "catalog", "import", src)
	require.NoError(t, err)

	c, err := catalog.ReadFile(store)
	require.NoError(t, err)
	require.Len(t, c.Categories, 1)
	assert.Equal(t, "Акыда", c.Categories[0].Title)
	assert.NotNil(t, c.FindBook("kitab-at-tawhid"))

	_, err = execute(t, "--config", cfgPath, "catalog", "import", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	_, err = execute(t, "--config", cfgPath, "catalog", "import", "--yes", src)
	require.NoError(t, err)

	_, err = execute(t, "--config", cfgPath, "catalog", "validate")
	require.NoError(t, err)
	_, err = execute(t, "--config", cfgPath, "catalog", "search", "tawhid")
	require.NoError(t, err)
	_, err = execute(t, "--config", cfgPath, "catalog", "show")
	require.NoError(t, err)
}

func TestCatalogValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(sampleCatalog), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"categories":[{"title":"no id"}]}`), 0o644))

	_, err := execute(t, "catalog", "validate", good)
	require.NoError(t, err)

	_, err = execute(t, "catalog", "validate", bad)
	require.ErrorIs(t, err, catalog.ErrStoreCorrupt)
}

func TestCatalogImportRejectsCorruptFile(t *testing.T) {
	cfgPath, store := workspace(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`not json`), 0o644))

	_, err := execute(t, "--config", cfgPath, "catalog", "import", bad)
	require.ErrorIs(t, err, catalog.ErrStoreCorrupt)

	c, err := catalog.ReadFile(store)
	require.NoError(t, err)
	assert.Empty(t, c.Categories)
}
