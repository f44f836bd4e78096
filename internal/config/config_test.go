package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: abc\n  admin_ids: [42]\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.CoreConfig().Telegram.Token)
	assert.Equal(t, []int64{42}, cfg.Telegram.AdminIDs)
	assert.Equal(t, DriverFile, cfg.Catalog.Driver)
	assert.Equal(t, "data/catalog.json", cfg.Catalog.Path)
	assert.False(t, cfg.UsesDatabase())
}

func TestLoadFromEnvOnly(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("ADMIN_IDS", "1,2,3")
	t.Setenv("CATALOG_PATH", "/srv/library/catalog.json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, []int64{1, 2, 3}, cfg.Telegram.AdminIDs)
	assert.Equal(t, "/srv/library/catalog.json", cfg.Catalog.Path)
}

func TestLoadPostgresDriver(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: abc
catalog:
  driver: Postgres
  seed_path: data/catalog.json
database:
  host: localhost
  user: library
  name: library
`)
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "data/catalog.json", cfg.Catalog.SeedPath)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no token":          "catalog:\n  driver: file\n",
		"unknown driver":    "telegram:\n  token: abc\ncatalog:\n  driver: s3\n",
		"postgres no db":    "telegram:\n  token: abc\ncatalog:\n  driver: postgres\n",
		"search limit high": "telegram:\n  token: abc\ncatalog:\n  search_limit: 500\n",
		"search limit 16":   "telegram:\n  token: abc\ncatalog:\n  search_limit: 16\n",
		"broken yaml":       "telegram: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogSkipsTelegramChecks(t *testing.T) {
	cfg, err := LoadCatalog(writeConfig(t, "catalog:\n  path: /tmp/c.json\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/c.json", cfg.Catalog.Path)
	assert.Empty(t, cfg.Telegram.Token)
}
