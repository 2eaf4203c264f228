// Package vectorstore implements spec.md §4.B: a persistent, content-addressed
// chunk store keyed by id, with optional lazy vector indexing and safe,
// escaped string predicates. Grounded on the teacher's internal/storage
// package (schema.go, chunk_reader.go, chunk_writer.go, vector_index.go),
// generalized from the teacher's {chunk_type, title, text} chunk shape to
// the spec's closed Chunk type.
package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/cortexerr"
)

// Embedder is the subset of the provider contract (§4.D) the store needs to
// embed chunks lacking an embedding and to embed a query once at search
// time. Declared locally (rather than imported from internal/providers) to
// avoid the store depending on provider transport/retry concerns -- the
// capability-record pattern from spec.md §9: a value holding a function,
// not a dynamic duck-typed interface reaching across package boundaries.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Options tunes storage behavior.
type Options struct {
	VectorIndexThreshold int // rows before a vec0 index is created lazily
	EmbedBatchSize       int
}

// DefaultOptions matches the teacher's default embedding dimension
// assumption (384, BGE-small) scaled threshold.
func DefaultOptions() Options {
	return Options{VectorIndexThreshold: 500, EmbedBatchSize: 64}
}

// Store is the sqlite-backed implementation of the vector store contract.
type Store struct {
	db       *sql.DB
	embedder Embedder
	opts     Options
}

// Open opens (creating if necessary) the chunk store at dbPath. Schema
// creation/verification runs on every open, per spec.md §4.B.
func Open(dbPath string, embedder Embedder, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, embedder: embedder, opts: opts}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// CreateOrUpdateTable ensures the schema exists; when replace is true every
// stored chunk is deleted and the vector index dropped first.
func (s *Store) CreateOrUpdateTable(ctx context.Context, replace bool) error {
	if replace {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
			return fmt.Errorf("replace chunks table: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", vectorTableName)); err != nil {
			return fmt.Errorf("drop vector index: %w", err)
		}
	}
	return ensureSchema(s.db)
}

// AddChunks embeds (in batches) any chunk lacking an embedding, normalizes
// every embedding, and inserts all chunks in one transaction.
func (s *Store) AddChunks(ctx context.Context, chunks []chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := s.embedMissing(ctx, chunks); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, c := range chunks {
		if len(c.Embedding) > 0 {
			c.Embedding = normalize(c.Embedding)
		}
		embBytes := any(nil)
		if len(c.Embedding) > 0 {
			embBytes = serializeEmbedding(c.Embedding)
		}
		_, err := sq.Insert("chunks").
			Columns("chunk_id", "file_path", "language", "kind", "name", "parent_name",
				"content", "start_line", "end_line", "metadata", "embedding", "created_at", "updated_at").
			Values(c.ID, c.FilePath, string(c.Language), string(c.Kind), c.Name, c.ParentName,
				c.Content, nullableInt(c.StartLine), nullableInt(c.EndLine), marshalMetadata(c.Metadata),
				embBytes, now, now).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
		if len(c.Embedding) > 0 {
			if err := upsertVectorIndex(tx, c.ID, c.Embedding); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add: %w", err)
	}

	return maybeCreateVectorIndex(s.db, s.embedder.Dimensions(), s.opts.VectorIndexThreshold)
}

// DeleteChunksByFile removes every chunk for path in one delete-then-append
// transaction boundary (the "then-append" half is the caller's subsequent
// AddChunks call, per spec.md §4.C's indexer algorithm).
func (s *Store) DeleteChunksByFile(ctx context.Context, path string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	ids, err := idsForFileTx(ctx, tx, path)
	if err != nil {
		return 0, err
	}
	if err := deleteVectorsTx(tx, ids); err != nil {
		return 0, err
	}
	res, err := sq.Delete("chunks").Where(sq.Eq{"file_path": path}).RunWith(tx).ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete chunks for %s: %w", path, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func idsForFileTx(ctx context.Context, tx *sql.Tx, path string) ([]string, error) {
	rows, err := sq.Select("chunk_id").From("chunks").Where(sq.Eq{"file_path": path}).RunWith(tx).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetChunkByID looks the chunk up by its exact id. The predicate is built
// by escaping single quotes and wrapping the id in single quotes (spec.md
// §4.B's safe-predicate rule), rather than relying solely on the
// placeholder binding squirrel would otherwise provide, so the store
// itself -- not just the query builder -- treats the id as an opaque
// string with no SQL-meaningful characters.
func (s *Store) GetChunkByID(ctx context.Context, id string) (*chunk.Chunk, error) {
	query := fmt.Sprintf("SELECT %s FROM chunks WHERE chunk_id = %s", chunkColumns, escapeLiteral(id))
	row := s.db.QueryRowContext(ctx, query)
	c, err := scanChunk(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chunk by id: %w", err)
	}
	return c, nil
}

// GetChunksByFile returns every chunk for path, ordered by start line. Uses
// the same escaped-literal predicate technique as GetChunkByID.
func (s *Store) GetChunksByFile(ctx context.Context, path string) ([]chunk.Chunk, error) {
	query := fmt.Sprintf("SELECT %s FROM chunks WHERE file_path = %s ORDER BY start_line", chunkColumns, escapeLiteral(path))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get chunks by file: %w", err)
	}
	defer rows.Close()

	var out []chunk.Chunk
	for rows.Next() {
		c, err := scanChunkRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// SearchFilters are the spec's optional closed-enum search filters.
type SearchFilters struct {
	Language       string
	Kind           string
	ScoreThreshold float64 // default 0: accept all
}

// Search embeds query_text once, then ranks chunks by cosine similarity,
// using the vector index when present and falling back to a linear scan of
// every embedded chunk otherwise. limit=0 is rejected with InvalidArgument;
// filter values outside the closed enum fail the same way before any I/O.
func (s *Store) Search(ctx context.Context, queryText string, limit int, filters SearchFilters) ([]chunk.SearchResult, error) {
	if limit == 0 {
		return nil, cortexerr.Invalid("limit", limit, "limit > 0")
	}
	if err := validateLanguage(filters.Language); err != nil {
		return nil, err
	}
	if err := validateKind(filters.Kind); err != nil {
		return nil, err
	}

	embs, err := s.embedder.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, err
	}
	query := normalize(embs[0])

	var hits []vectorHit
	if vectorIndexExists(s.db) {
		hits, err = queryVectorIndex(s.db, query, overFetch(limit))
		if err != nil {
			return nil, err
		}
	} else {
		hits, err = linearScan(ctx, s.db, query)
		if err != nil {
			return nil, err
		}
	}

	return s.rank(ctx, hits, limit, filters)
}

func overFetch(limit int) int {
	if limit > 1000 {
		return limit
	}
	return limit * 4
}

func (s *Store) rank(ctx context.Context, hits []vectorHit, limit int, filters SearchFilters) ([]chunk.SearchResult, error) {
	results := make([]chunk.SearchResult, 0, len(hits))
	for _, h := range hits {
		if filters.ScoreThreshold > 0 && h.Score < filters.ScoreThreshold {
			continue
		}
		c, err := s.GetChunkByID(ctx, h.ChunkID)
		if err != nil || c == nil {
			continue
		}
		if filters.Language != "" && string(c.Language) != filters.Language {
			continue
		}
		if filters.Kind != "" && string(c.Kind) != filters.Kind {
			continue
		}
		results = append(results, chunk.SearchResult{Chunk: *c, Score: h.Score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// linearScan computes cosine similarity against every stored embedding when
// no vector index exists yet, per spec.md §4.B's "degrade gracefully to
// linear scan when absent".
func linearScan(ctx context.Context, db *sql.DB, query []float32) ([]vectorHit, error) {
	rows, err := db.QueryContext(ctx, "SELECT chunk_id, embedding FROM chunks WHERE embedding IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []vectorHit
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		emb := deserializeEmbedding(raw)
		hits = append(hits, vectorHit{ChunkID: id, Score: cosineSimilarity(query, emb)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	return hits, nil
}

// Stats is the spec's get_stats() return shape.
type Stats struct {
	TotalChunks int
	Languages   map[string]int
}

func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{Languages: map[string]int{}}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&stats.TotalChunks); err != nil {
		return stats, fmt.Errorf("count chunks: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, "SELECT language, COUNT(*) FROM chunks GROUP BY language")
	if err != nil {
		return stats, fmt.Errorf("count by language: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var n int
		if err := rows.Scan(&lang, &n); err != nil {
			return stats, err
		}
		stats.Languages[lang] = n
	}
	return stats, rows.Err()
}

func (s *Store) embedMissing(ctx context.Context, chunks []chunk.Chunk) error {
	var idxs []int
	var texts []string
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			idxs = append(idxs, i)
			texts = append(texts, c.Content)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	batch := s.opts.EmbedBatchSize
	if batch <= 0 {
		batch = 64
	}
	for start := 0; start < len(texts); start += batch {
		end := start + batch
		if end > len(texts) {
			end = len(texts)
		}
		embs, err := s.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return fmt.Errorf("embed chunks: %w", err)
		}
		for j, emb := range embs {
			chunks[idxs[start+j]].Embedding = normalize(emb)
		}
	}
	return nil
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

const chunkColumns = "chunk_id, file_path, language, kind, name, parent_name, content, start_line, end_line, metadata, embedding, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanChunk(row *sql.Row) (*chunk.Chunk, error) {
	return scanChunkRows(row)
}

func scanChunkRows(row scanner) (*chunk.Chunk, error) {
	var (
		id, filePath, language, kind, name, parentName, content, metadataJSON string
		startLine, endLine                                                   sql.NullInt64
		embBytes                                                             []byte
		createdAt, updatedAt                                                 string
	)
	if err := row.Scan(&id, &filePath, &language, &kind, &name, &parentName, &content,
		&startLine, &endLine, &metadataJSON, &embBytes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c := &chunk.Chunk{
		ID:         id,
		FilePath:   filePath,
		Language:   chunk.Language(language),
		Kind:       chunk.Kind(kind),
		Name:       name,
		ParentName: parentName,
		Content:    content,
		Metadata:   unmarshalMetadata(metadataJSON),
		Embedding:  deserializeEmbedding(embBytes),
	}
	if startLine.Valid {
		c.StartLine = int(startLine.Int64)
	}
	if endLine.Valid {
		c.EndLine = int(endLine.Int64)
	}
	return c, nil
}
