package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	log.Println("Successfully connected to the database")
	return &PostgresStore{DB: db}, nil
}

// EnsureSchema creates the pgvector extension, the memories table and its
// indexes if they do not already exist. embeddingDims must match the
// embedding model; changing models requires a migration.
func (s *PostgresStore) EnsureSchema(ctx context.Context, embeddingDims int) error {
	if embeddingDims <= 0 {
		embeddingDims = 1536
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS memories (
            id UUID PRIMARY KEY,
            user_id TEXT NOT NULL,
            title TEXT DEFAULT '',
            labels TEXT[] DEFAULT '{}'::TEXT[],
            content TEXT NOT NULL,
            metadata JSONB DEFAULT '{}'::jsonb,
            content_hash TEXT,
            embedding vector(%d),
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`, embeddingDims),
		`CREATE INDEX IF NOT EXISTS idx_memories_user_created ON memories(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_user_hash ON memories(user_id, content_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_content_fts ON memories USING GIN (to_tsvector('english', content))`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	if s.DB == nil {
		return sql.ErrConnDone
	}
	return s.DB.Close()
}
