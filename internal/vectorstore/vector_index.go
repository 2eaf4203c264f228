package vectorstore

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// Vector indexing is grounded on the teacher's internal/storage/vector_index.go:
// a sqlite-vec vec0 virtual table, upserted by delete-then-insert because
// vec0 has no INSERT OR REPLACE, queried with vec_distance_cosine. The
// teacher creates this table unconditionally at schema creation time;
// spec.md §4.B requires it to be optional and created lazily once the table
// exceeds a row-count threshold, with graceful degradation to a linear scan
// below that threshold or when creation fails.

const vectorTableName = "chunks_vec"

func vectorIndexExists(db *sql.DB) bool {
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", vectorTableName,
	).Scan(&name)
	return err == nil
}

// maybeCreateVectorIndex creates the vec0 virtual table once the chunks
// table holds at least threshold rows with a non-null embedding. A
// creation failure (e.g. the sqlite-vec extension unavailable) is not
// fatal: search falls back to linearScan.
func maybeCreateVectorIndex(db *sql.DB, dimensions, threshold int) error {
	if vectorIndexExists(db) {
		return nil
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM chunks WHERE embedding IS NOT NULL").Scan(&count); err != nil {
		return err
	}
	if count < threshold {
		return nil
	}
	if err := createVectorIndex(db, dimensions); err != nil {
		// Drop any half-built table so Search keeps using linearScan.
		_, _ = db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", vectorTableName))
	}
	return nil
}

func createVectorIndex(db *sql.DB, dimensions int) error {
	ddl := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(chunk_id TEXT PRIMARY KEY, embedding float[%d])`,
		vectorTableName, dimensions)
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create vector index: %w", err)
	}
	rows, err := db.Query("SELECT chunk_id, embedding FROM chunks WHERE embedding IS NOT NULL")
	if err != nil {
		return err
	}
	defer rows.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (chunk_id, embedding) VALUES (?, ?)", vectorTableName))
	if err != nil {
		return err
	}
	defer insert.Close()

	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return err
		}
		emb := deserializeEmbedding(raw)
		vecBytes, err := sqlite_vec.SerializeFloat32(emb)
		if err != nil {
			return err
		}
		if _, err := insert.Exec(id, vecBytes); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertVectorIndex(tx *sql.Tx, id string, embedding []float32) error {
	if !vectorIndexExistsTx(tx) {
		return nil
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE chunk_id = ?", vectorTableName), id); err != nil {
		return fmt.Errorf("delete stale vector for %s: %w", id, err)
	}
	vecBytes, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return fmt.Errorf("serialize embedding for %s: %w", id, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("INSERT INTO %s (chunk_id, embedding) VALUES (?, ?)", vectorTableName), id, vecBytes); err != nil {
		return fmt.Errorf("insert vector for %s: %w", id, err)
	}
	return nil
}

func deleteVectorsTx(tx *sql.Tx, ids []string) error {
	if !vectorIndexExistsTx(tx) || len(ids) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(fmt.Sprintf("DELETE FROM %s WHERE chunk_id = ?", vectorTableName))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return err
		}
	}
	return nil
}

func vectorIndexExistsTx(tx *sql.Tx) bool {
	var name string
	err := tx.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", vectorTableName).Scan(&name)
	return err == nil
}

type vectorHit struct {
	ChunkID string
	Score   float64 // cosine similarity, higher is better
}

// queryVectorIndex runs a KNN search via vec_distance_cosine, converting
// sqlite-vec's cosine *distance* (0 = identical) into the similarity score
// (1 = identical) spec.md §4.B's ranking contract expects.
func queryVectorIndex(db *sql.DB, query []float32, limit int) ([]vectorHit, error) {
	queryBytes, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(fmt.Sprintf(
		`SELECT chunk_id, vec_distance_cosine(embedding, ?) AS distance
		 FROM %s ORDER BY distance LIMIT ?`, vectorTableName), queryBytes, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []vectorHit
	for rows.Next() {
		var id string
		var dist float64
		if err := rows.Scan(&id, &dist); err != nil {
			return nil, err
		}
		hits = append(hits, vectorHit{ChunkID: id, Score: 1 - dist})
	}
	return hits, rows.Err()
}
