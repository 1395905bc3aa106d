package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VishwasK/agentmemory/database"
	apperrors "github.com/VishwasK/agentmemory/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Add stores one record for the user. A record whose composed content matches
// an existing memory by hash refreshes that memory instead of duplicating it.
func (s *Store) Add(ctx context.Context, userID string, rec Record) (uuid.UUID, error) {
	if strings.TrimSpace(userID) == "" {
		return uuid.Nil, apperrors.WrapError(apperrors.ErrInvalidInput, "user id is required")
	}
	if strings.TrimSpace(rec.Text) == "" {
		return uuid.Nil, apperrors.WrapError(apperrors.ErrInvalidInput, "record text is required")
	}

	content := composeContent(rec)
	contentHash := hashContent(normalizeForHash(content))

	id, err := s.db.FindMemoryByHash(ctx, userID, contentHash)
	if err != nil {
		return uuid.Nil, apperrors.WrapError(err, "memory dedupe lookup")
	}
	fresh := id == uuid.Nil
	if fresh {
		id = uuid.New()
	}

	var embedding []float32
	if rec.Embed {
		embedding, err = s.embedder.Embed(ctx, content)
		if err != nil {
			return uuid.Nil, apperrors.WrapError(err, "embed memory content")
		}
	}

	row := database.MemoryRow{
		ID:          id,
		UserID:      userID,
		Title:       strings.TrimSpace(rec.Title),
		Labels:      rec.Labels,
		Content:     content,
		Metadata:    cloneStringMap(rec.Metadata),
		ContentHash: contentHash,
	}
	if err := s.db.UpsertMemory(ctx, row, embedding); err != nil {
		return uuid.Nil, apperrors.WrapErrorf(apperrors.ErrStoreWrite, "upsert memory: %v", err)
	}

	if fresh {
		s.logger.Debug("Stored new memory",
			zap.String("memory_id", id.String()),
			zap.String("user_id", userID))
	} else {
		s.logger.Debug("Refreshed existing memory",
			zap.String("memory_id", id.String()),
			zap.String("user_id", userID))
	}
	return id, nil
}

// AddExchangeAsync stores a completed chat exchange without blocking the
// request. This method is non-blocking; storage failures are logged, never
// surfaced to the caller.
func (s *Store) AddExchangeAsync(userID, userMsg, assistantMsg string) {
	userMsg = strings.TrimSpace(userMsg)
	assistantMsg = strings.TrimSpace(assistantMsg)
	if userMsg == "" && assistantMsg == "" {
		return
	}

	rec := Record{
		Title:  fmt.Sprintf("Chat from %s", time.Now().Format("January 2, 2006")),
		Labels: []string{"conversation"},
		Text:   formatExchange(userMsg, assistantMsg),
		Metadata: map[string]string{
			"source": "chat exchange",
			"role":   "exchange",
		},
		Embed: ParseSearchMode(s.cfg.SearchMode) != ModeLexical,
	}

	go func(userID string, rec Record) {
		const maxAttempts = 3
		for attempt := range maxAttempts {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			_, err := s.Add(ctx, userID, rec)
			cancel()

			if err == nil {
				s.logger.Info("Stored chat exchange to memory",
					zap.String("user_id", userID))
				return
			}

			if attempt < maxAttempts-1 {
				// Backoff: 1s, 2s
				time.Sleep(time.Second * time.Duration(attempt+1))
				continue
			}

			s.logger.Error("Memory storage failed after retries",
				zap.Error(err),
				zap.String("user_id", userID))
		}
	}(userID, rec)
}

func formatExchange(userMsg, assistantMsg string) string {
	var b strings.Builder
	if userMsg != "" {
		b.WriteString("User: ")
		b.WriteString(userMsg)
	}
	if assistantMsg != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Assistant: ")
		b.WriteString(assistantMsg)
	}
	return b.String()
}
