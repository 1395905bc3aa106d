// Package memory turns raw retrieval hits into the small set of snippets a
// chat prompt can use: query normalization, metadata stripping, near-duplicate
// suppression and factual-first ranking, plus the persistent store behind them.
package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/VishwasK/agentmemory/config"
	"github.com/VishwasK/agentmemory/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SearchMode selects which retrieval signal serves a query.
type SearchMode string

const (
	ModeLexical  SearchMode = "lexical"
	ModeSemantic SearchMode = "semantic"
	ModeAuto     SearchMode = "auto"
)

// ParseSearchMode maps a config string to a SearchMode, defaulting to auto.
func ParseSearchMode(s string) SearchMode {
	switch SearchMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLexical:
		return ModeLexical
	case ModeSemantic:
		return ModeSemantic
	default:
		return ModeAuto
	}
}

// Embedder produces an embedding vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Hit is a raw retrieval result before filtering and ranking. Snippet, Text
// and Preview are alternate carriers for the hit's text; resolution order is
// snippet, then text, then preview.
type Hit struct {
	ID        uuid.UUID
	Title     string
	Snippet   string
	Text      string
	Preview   string
	Score     float64
	Metadata  map[string]string
	CreatedAt time.Time
}

// RankedHit is a hit that survived filtering, carrying its cleaned snippet
// and classification flags.
type RankedHit struct {
	Hit     Hit
	Snippet string
	// Factual marks snippets containing a space-padded copula ("is", "was",
	// "has", ...); factual snippets rank ahead of everything else.
	Factual bool
	// HasProperNoun is informational; ranking ignores it.
	HasProperNoun bool
}

// Record is one unit of ingestion: a titled, labeled piece of text to remember
// for a user. Embed=false stores it lexically searchable only.
type Record struct {
	Title    string
	Labels   []string
	Text     string
	Metadata map[string]string
	Embed    bool
}

// Store orchestrates memory persistence and retrieval on top of Postgres.
type Store struct {
	cfg      *config.Config
	db       *database.PostgresStore
	embedder Embedder
	logger   *zap.Logger
}

func New(cfg *config.Config, db *database.PostgresStore, embedder Embedder, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres store is required for memory persistence")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required for memory search")
	}
	return &Store{
		cfg:      cfg,
		db:       db,
		embedder: embedder,
		logger:   logger,
	}, nil
}

// composeContent renders a record as stored content: header lines the ranker
// later strips, then the body.
func composeContent(rec Record) string {
	var b strings.Builder
	if title := strings.TrimSpace(rec.Title); title != "" {
		b.WriteString("title: ")
		b.WriteString(title)
		b.WriteString("\n")
	}
	if len(rec.Labels) > 0 {
		b.WriteString("labels: ")
		b.WriteString(strings.Join(rec.Labels, ", "))
		b.WriteString("\n")
	}
	if source := strings.TrimSpace(rec.Metadata["source"]); source != "" {
		b.WriteString("extracted: ")
		b.WriteString(source)
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimSpace(rec.Text))
	return b.String()
}

func normalizeForHash(content string) string {
	return strings.TrimSpace(content)
}

func hashContent(content string) string {
	if content == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return make(map[string]string)
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
