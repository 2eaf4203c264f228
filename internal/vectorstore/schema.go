package vectorstore

import (
	"database/sql"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

// Schema is grounded on the teacher's internal/storage/schema.go: the
// chunks table, its scalar indexes, and cache_metadata bootstrap are kept
// almost verbatim, generalized from the teacher's {chunk_type, title, text}
// columns to the spec's closed Chunk shape {language, kind, name,
// parent_name, metadata}. The teacher's ten code-graph tables (types,
// functions, imports, call graph, ...) are a different concern
// (structural code-graph storage) than §4.B's flat chunk store and are not
// carried into this schema or any other package of this module.

const schemaVersion = "1"

// SchemaVersion reports the chunks-table schema version new stores are
// created with, so callers like the version command can print what a
// freshly indexed repo's vector store will be stamped with.
func SchemaVersion() string {
	return schemaVersion
}

const createChunksTable = `
CREATE TABLE IF NOT EXISTS chunks (
    chunk_id    TEXT PRIMARY KEY,
    file_path   TEXT NOT NULL,
    language    TEXT NOT NULL,
    kind        TEXT NOT NULL,
    name        TEXT NOT NULL DEFAULT '',
    parent_name TEXT NOT NULL DEFAULT '',
    content     TEXT NOT NULL,
    start_line  INTEGER,
    end_line    INTEGER,
    metadata    TEXT NOT NULL DEFAULT '{}',
    embedding   BLOB,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
)
`

const createCacheMetadataTable = `
CREATE TABLE IF NOT EXISTS cache_metadata (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

func scalarIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path)",
		"CREATE INDEX IF NOT EXISTS idx_chunks_language ON chunks(language)",
		"CREATE INDEX IF NOT EXISTS idx_chunks_kind ON chunks(kind)",
	}
}

// InitVectorExtension registers sqlite-vec with every future connection.
// Must be called once before opening any store (teacher's
// storage.InitVectorExtension).
func InitVectorExtension() {
	sqlite_vec.Auto()
}

// ensureSchema creates the chunks table, cache_metadata, and scalar indexes
// if they do not already exist. Idempotent: safe to call on every open, per
// spec.md §4.B's "on table creation and on every open of an existing table".
func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := tx.Exec(createChunksTable); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	if _, err := tx.Exec(createCacheMetadataTable); err != nil {
		return fmt.Errorf("create cache_metadata table: %w", err)
	}
	for _, idx := range scalarIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("create scalar index: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		`INSERT INTO cache_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)
		 ON CONFLICT(key) DO NOTHING`, schemaVersion, now); err != nil {
		return fmt.Errorf("bootstrap cache_metadata: %w", err)
	}

	return tx.Commit()
}

func schemaVersionOf(db *sql.DB) (string, error) {
	var v string
	err := db.QueryRow("SELECT value FROM cache_metadata WHERE key = 'schema_version'").Scan(&v)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
