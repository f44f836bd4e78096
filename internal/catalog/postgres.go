package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/librarybot/core/logger"
)

// DefaultDocumentName is the row key used when no name is configured.
const DefaultDocumentName = "catalog"

// PostgresStore keeps the catalog as a single jsonb row in catalog_documents.
type PostgresStore struct {
	db   *sqlx.DB
	name string
}

// NewPostgresStore returns a store reading and writing the named document row.
func NewPostgresStore(db *sqlx.DB, name string) *PostgresStore {
	if name == "" {
		name = DefaultDocumentName
	}
	return &PostgresStore{db: db, name: name}
}

const (
	selectDocumentSQL = `SELECT body FROM catalog_documents WHERE name = $1`
	existsDocumentSQL = `SELECT EXISTS (SELECT 1 FROM catalog_documents WHERE name = $1)`
	upsertDocumentSQL = `INSERT INTO catalog_documents (name, body, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
)

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context) (*Catalog, error) {
	var body []byte
	err := s.db.GetContext(ctx, &body, selectDocumentSQL, s.name)
	if errors.Is(err, sql.ErrNoRows) {
		c := Empty()
		if err := s.Save(ctx, c); err != nil {
			return nil, err
		}
		logger.Info(ctx, "store", "catalog.created",
			slog.String("driver", "postgres"),
			slog.String("path", s.name),
		)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select catalog %q: %w", s.name, err)
	}
	c, err := Decode(body)
	if err != nil {
		logger.Error(ctx, "store", "catalog.corrupt",
			slog.String("driver", "postgres"),
			slog.String("path", s.name),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return c, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, c *Catalog) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	// lib/pq sends []byte as bytea; jsonb needs the text form.
	if _, err := s.db.ExecContext(ctx, upsertDocumentSQL, s.name, string(data)); err != nil {
		return fmt.Errorf("upsert catalog %q: %w", s.name, err)
	}
	return nil
}

// Exists reports whether the document row has been written.
func (s *PostgresStore) Exists(ctx context.Context) (bool, error) {
	var ok bool
	if err := s.db.GetContext(ctx, &ok, existsDocumentSQL, s.name); err != nil {
		return false, fmt.Errorf("check catalog %q: %w", s.name, err)
	}
	return ok, nil
}
