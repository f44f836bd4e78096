package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/librarybot/core/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const readyTimeout = 30 * time.Second

// migrationFiles are the sorted *.up.sql names of a migrations directory.
type migrationFiles []string

func readMigrationFiles(dir string) migrationFiles {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names migrationFiles
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

// between returns the files with from < version <= to.
func (f migrationFiles) between(from, to uint) []string {
	var out []string
	for _, name := range f {
		if v := fileVersion(name); v > from && v <= to {
			out = append(out, name)
		}
	}
	return out
}

func fileVersion(name string) uint {
	prefix, _, _ := strings.Cut(name, "_")
	v, err := strconv.ParseUint(prefix, 10, 0)
	if err != nil {
		return 0
	}
	return uint(v)
}

func migrationsDir(configured string) (string, error) {
	if configured == "" {
		configured = "migrations"
	}
	dir, err := filepath.Abs(configured)
	if err != nil {
		return "", fmt.Errorf("resolve migrations path: %w", err)
	}
	return dir, nil
}

// fileList adds a bounded preview of names to attrs.
func fileList(attrs []any, names []string) []any {
	preview, truncated := logger.SummarizeStrings(names, 6)
	attrs = append(attrs, slog.Int("files_total", len(names)))
	if preview != "" {
		attrs = append(attrs, slog.String("files_preview", preview))
	}
	if truncated {
		attrs = append(attrs, slog.Bool("files_truncated", true))
	}
	return attrs
}

func migrateFailed(msg, event string, err error) {
	logger.MIG.Error(msg,
		slog.String("event", event),
		slog.String("status", "fail"),
		slog.String("err", err.Error()),
	)
}

// RunMigrations waits for the database and applies every pending up migration.
func RunMigrations(cfg Config) error {
	dsn := cfg.URL()
	if err := WaitForPostgres(dsn, readyTimeout); err != nil {
		migrateFailed("db not ready", "db.migrate", err)
		return fmt.Errorf("database not ready: %w", err)
	}

	dir, err := migrationsDir(cfg.MigrationsPath)
	if err != nil {
		migrateFailed("migrations path lookup failed", "db.migrate", err)
		return err
	}
	files := readMigrationFiles(dir)
	logger.MIG.Debug("migrations resolved", fileList([]any{
		slog.String("event", "resolve"),
		slog.String("path", dir),
	}, files)...)

	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		migrateFailed("init failed", "db.migrate", err)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	from, _, _ := m.Version()
	start := time.Now()
	err = m.Up()
	took := logger.Took(start)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		migrateFailed("migration failed", "apply", err)
		return fmt.Errorf("migration execution failed: %w", err)
	}

	to, _, _ := m.Version()
	applied := files.between(from, to)
	if len(applied) > 0 {
		logger.MIG.Debug("applied files", fileList([]any{slog.String("event", "apply")}, applied)...)
	}
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.String("status", "ok"),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}
