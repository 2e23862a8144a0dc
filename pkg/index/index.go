// Package index provides a persistent SQLite search index over a loaded
// corpus. The index is a derived artifact: it can always be rebuilt from
// the markdown files, so schema changes never need data migration beyond
// a rebuild.
package index

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/skilldex/skilldex/pkg/corpus"
)

// schemaVersion is stored in PRAGMA user_version. Bumping it drops and
// recreates the documents table on the next Open.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	path        TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	applies_to  TEXT NOT NULL DEFAULT '',
	kind        TEXT NOT NULL,
	body        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_documents_name ON documents(name);
CREATE INDEX IF NOT EXISTS idx_documents_applies_to ON documents(applies_to);
CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);
`

// Entry is an indexed document row
type Entry struct {
	Path        string `db:"path" json:"path"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category,omitempty"`
	AppliesTo   string `db:"applies_to" json:"applies_to,omitempty"`
	Kind        string `db:"kind" json:"kind"`
	Body        string `db:"body" json:"-"`
}

// Index is a SQLite-backed search index over corpus documents
type Index struct {
	db *sqlx.DB
}

// DefaultPath returns the default location of the index database
func DefaultPath() (string, error) {
	if basePath := os.Getenv("SKILLDEX_BASE_PATH"); basePath != "" {
		return filepath.Join(basePath, "index.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".skilldex", "index.db"), nil
}

// Open opens or creates the index database at the given path
func Open(ctx context.Context, dbPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create index directory")
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open index database")
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping index database")
	}

	if err := configure(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Index{db: db}, nil
}

// Close closes the underlying database
func (ix *Index) Close() error {
	return ix.db.Close()
}

// configure sets up SQLite pragmas for WAL mode single-writer use
func configure(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=memory",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}

	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)
	return nil
}

// migrate creates the schema, dropping stale tables when the version moved
func migrate(ctx context.Context, db *sqlx.DB) error {
	var version int
	if err := db.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}

	if version != 0 && version != schemaVersion {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS documents"); err != nil {
			return errors.Wrap(err, "failed to drop stale documents table")
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create index schema")
	}

	if _, err := db.ExecContext(ctx, "PRAGMA user_version = 1"); err != nil {
		return errors.Wrap(err, "failed to set schema version")
	}
	return nil
}

// Rebuild replaces the index contents with the documents of the given
// corpus in a single transaction. A failed rebuild leaves the previous
// index intact.
func (ix *Index) Rebuild(ctx context.Context, c *corpus.Corpus) error {
	tx, err := ix.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin rebuild transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return errors.Wrap(err, "failed to clear index")
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO documents (path, name, description, category, applies_to, kind, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert statement")
	}
	defer stmt.Close()

	for _, doc := range c.Documents() {
		_, err := stmt.ExecContext(ctx,
			doc.Path, doc.Name, doc.Description, doc.Category,
			doc.AppliesTo, string(doc.Kind), doc.Body)
		if err != nil {
			return errors.Wrapf(err, "failed to index document %s", doc.Path)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit rebuild")
}

// Count returns the number of indexed documents
func (ix *Index) Count(ctx context.Context) (int, error) {
	var count int
	err := ix.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM documents")
	return count, errors.Wrap(err, "failed to count documents")
}
