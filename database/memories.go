package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// MemoryRow is one stored memory.
type MemoryRow struct {
	ID          uuid.UUID
	UserID      string
	Title       string
	Labels      []string
	Content     string
	Metadata    map[string]string
	ContentHash string
	CreatedAt   time.Time
}

// MemorySearchResult pairs a memory row with the score its retrieval signal
// produced. Rank is set by lexical search, Similarity by semantic search.
type MemorySearchResult struct {
	MemoryRow
	Rank       float64
	Similarity float64
}

// UpsertMemory stores or refreshes a memory row. A nil or empty embedding is
// stored as NULL, leaving the row lexically searchable only.
func (s *PostgresStore) UpsertMemory(ctx context.Context, row MemoryRow, embedding []float32) error {
	metadata := row.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata for memory: %w", err)
	}

	hashValue := sql.NullString{String: row.ContentHash, Valid: row.ContentHash != ""}

	var embValue any
	if len(embedding) > 0 {
		embValue = pgvector.NewVector(embedding)
	}

	query := `
        INSERT INTO memories (id, user_id, title, labels, content, metadata, content_hash, embedding, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        ON CONFLICT (id)
        DO UPDATE SET title = EXCLUDED.title, labels = EXCLUDED.labels, content = EXCLUDED.content,
                      metadata = EXCLUDED.metadata, content_hash = EXCLUDED.content_hash,
                      embedding = EXCLUDED.embedding, created_at = NOW()
    `

	if _, err := s.DB.ExecContext(ctx, query, row.ID, row.UserID, row.Title, pq.Array(row.Labels), row.Content, string(metaJSON), hashValue, embValue); err != nil {
		return fmt.Errorf("failed to upsert memory: %w", err)
	}
	return nil
}

// FindMemoryByHash looks for an existing memory for the user with the given
// content hash. Returns uuid.Nil when no matching row exists or hash is empty.
func (s *PostgresStore) FindMemoryByHash(ctx context.Context, userID, contentHash string) (uuid.UUID, error) {
	if contentHash == "" {
		return uuid.Nil, nil
	}

	const query = `SELECT id FROM memories WHERE user_id = $1 AND content_hash = $2 LIMIT 1`

	var id uuid.UUID
	if err := s.DB.QueryRowContext(ctx, query, userID, contentHash).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to lookup memory by hash: %w", err)
	}

	return id, nil
}

// SearchMemoriesLexical runs Postgres full-text search over memory content.
// websearch_to_tsquery tolerates free-form input; an unparsable or empty query
// simply matches nothing.
func (s *PostgresStore) SearchMemoriesLexical(ctx context.Context, userID, query string, limit int) ([]MemorySearchResult, error) {
	const stmt = `
        SELECT m.id, m.title, m.labels, m.content, m.metadata, m.created_at,
               ts_rank_cd(to_tsvector('english', m.content), q) AS rank
        FROM memories m, websearch_to_tsquery('english', $2) q
        WHERE m.user_id = $1
          AND to_tsvector('english', m.content) @@ q
        ORDER BY rank DESC
        LIMIT $3
    `

	rows, err := s.DB.QueryContext(ctx, stmt, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("lexical memory search failed: %w", err)
	}
	defer rows.Close()

	var results []MemorySearchResult
	for rows.Next() {
		var res MemorySearchResult
		var labels pq.StringArray
		var metaRaw []byte
		if err := rows.Scan(&res.ID, &res.Title, &labels, &res.Content, &metaRaw, &res.CreatedAt, &res.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan lexical search row: %w", err)
		}
		res.UserID = userID
		res.Labels = []string(labels)
		res.Metadata = unmarshalMetadata(metaRaw)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lexical memory search failed: %w", err)
	}
	return results, nil
}

// SearchMemoriesSemantic returns the user's memories nearest to the query
// embedding by cosine distance, most similar first. Rows without an embedding
// are skipped.
func (s *PostgresStore) SearchMemoriesSemantic(ctx context.Context, userID string, embedding []float32, limit int) ([]MemorySearchResult, error) {
	const stmt = `
        SELECT id, title, labels, content, metadata, created_at,
               1 - (embedding <=> $2) AS similarity
        FROM memories
        WHERE user_id = $1 AND embedding IS NOT NULL
        ORDER BY embedding <=> $2
        LIMIT $3
    `

	rows, err := s.DB.QueryContext(ctx, stmt, userID, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("semantic memory search failed: %w", err)
	}
	defer rows.Close()

	var results []MemorySearchResult
	for rows.Next() {
		var res MemorySearchResult
		var labels pq.StringArray
		var metaRaw []byte
		if err := rows.Scan(&res.ID, &res.Title, &labels, &res.Content, &metaRaw, &res.CreatedAt, &res.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan semantic search row: %w", err)
		}
		res.UserID = userID
		res.Labels = []string(labels)
		res.Metadata = unmarshalMetadata(metaRaw)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("semantic memory search failed: %w", err)
	}
	return results, nil
}

// ListRecentMemories returns the user's newest memories.
func (s *PostgresStore) ListRecentMemories(ctx context.Context, userID string, limit int) ([]MemoryRow, error) {
	const stmt = `
        SELECT id, title, labels, content, metadata, created_at
        FROM memories
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := s.DB.QueryContext(ctx, stmt, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	var memories []MemoryRow
	for rows.Next() {
		var row MemoryRow
		var labels pq.StringArray
		var metaRaw []byte
		if err := rows.Scan(&row.ID, &row.Title, &labels, &row.Content, &metaRaw, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory row: %w", err)
		}
		row.UserID = userID
		row.Labels = []string(labels)
		row.Metadata = unmarshalMetadata(metaRaw)
		memories = append(memories, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	return memories, nil
}

func unmarshalMetadata(raw []byte) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}
	var meta map[string]string
	if err := json.Unmarshal(raw, &meta); err != nil || meta == nil {
		return map[string]string{}
	}
	return meta
}
