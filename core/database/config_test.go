package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigURLEscapesCredentials(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "bot", Password: "p@ss:word", Name: "library"}
	got := cfg.URL()
	if !strings.HasPrefix(got, "postgres://bot:p%40ss%3Aword@db:5432/library") {
		t.Fatalf("unexpected url %s", got)
	}
	if !strings.HasSuffix(got, "sslmode=disable") {
		t.Fatalf("sslmode default missing: %s", got)
	}
}

func TestConfigDSNKeepsExplicitSSLMode(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "bot", Name: "library", SSLMode: "require"}
	if got := cfg.DSN(); !strings.Contains(got, "sslmode=require") {
		t.Fatalf("dsn = %s", got)
	}
}

func TestMigrationFilesBetween(t *testing.T) {
	files := migrationFiles{"000001_catalog_documents.up.sql", "000002_catalog_history.up.sql", "000003_x.up.sql"}
	if got := files.between(1, 3); len(got) != 2 || got[0] != files[1] {
		t.Fatalf("between(1, 3) = %v", got)
	}
	if got := files.between(3, 3); len(got) != 0 {
		t.Fatalf("between no-op = %v", got)
	}
	if v := fileVersion("bogus"); v != 0 {
		t.Fatalf("fileVersion(bogus) = %d", v)
	}
}

func TestReadMigrationFilesSortsUpOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002_b.up.sql", "000001_a.up.sql", "000001_a.down.sql", "README"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got := readMigrationFiles(dir)
	if len(got) != 2 || got[0] != "000001_a.up.sql" || got[1] != "000002_b.up.sql" {
		t.Fatalf("readMigrationFiles = %v", got)
	}
	if readMigrationFiles(filepath.Join(dir, "missing")) != nil {
		t.Fatal("missing dir must yield nil")
	}
}
