package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/VishwasK/agentmemory/database"
	apperrors "github.com/VishwasK/agentmemory/errors"

	"go.uber.org/zap"
)

const (
	snippetMaxRunes  = 240
	defaultListLimit = 10
)

// Search retrieves the user's memories most relevant to the query. auto mode
// blends both signals and degrades to whichever side is healthy; only both
// sides failing is an error.
func (s *Store) Search(ctx context.Context, userID, query string, limit int, mode SearchMode) ([]Hit, error) {
	if limit <= 0 {
		limit = defaultRankLimit
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	switch mode {
	case ModeLexical:
		return s.searchLexical(ctx, userID, query, limit)
	case ModeSemantic:
		return s.searchSemantic(ctx, userID, query, limit)
	default:
		return s.searchAuto(ctx, userID, query, limit)
	}
}

// ListRecent returns the user's newest memories as preview hits for browsing.
func (s *Store) ListRecent(ctx context.Context, userID string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.ListRecentMemories(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.WrapError(err, "list recent memories")
	}
	hits := make([]Hit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, Hit{
			ID:        row.ID,
			Title:     row.Title,
			Preview:   truncateRunes(row.Content, snippetMaxRunes),
			Metadata:  cloneStringMap(row.Metadata),
			CreatedAt: row.CreatedAt,
		})
	}
	return hits, nil
}

func (s *Store) searchLexical(ctx context.Context, userID, query string, limit int) ([]Hit, error) {
	results, err := s.db.SearchMemoriesLexical(ctx, userID, query, limit)
	if err != nil {
		return nil, apperrors.WrapError(err, "lexical search")
	}
	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, lexicalHit(res))
	}
	return hits, nil
}

func (s *Store) searchSemantic(ctx context.Context, userID, query string, limit int) ([]Hit, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperrors.WrapError(err, "embed query")
	}

	threshold := s.cfg.SemanticSimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.25
	}

	results, err := s.db.SearchMemoriesSemantic(ctx, userID, embedding, limit)
	if err != nil {
		return nil, apperrors.WrapError(err, "semantic search")
	}
	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		if res.Similarity < threshold {
			continue
		}
		hits = append(hits, semanticHit(res))
	}
	return hits, nil
}

func (s *Store) searchAuto(ctx context.Context, userID, query string, limit int) ([]Hit, error) {
	candidateLimit := max(limit*4, 20)

	semanticHits, semErr := s.searchSemantic(ctx, userID, query, candidateLimit)
	if semErr != nil {
		s.logger.Warn("Semantic search failed, falling back to lexical results only",
			zap.Error(semErr),
			zap.String("user_id", userID))
	}

	lexicalHits, lexErr := s.searchLexical(ctx, userID, query, candidateLimit)
	if lexErr != nil {
		s.logger.Warn("Lexical search failed, falling back to semantic results only",
			zap.Error(lexErr),
			zap.String("user_id", userID))
	}

	if semErr != nil && lexErr != nil {
		return nil, apperrors.WrapErrorf(apperrors.ErrIndexUnavailable, "semantic: %v; lexical: %v", semErr, lexErr)
	}

	merged := mergeHybrid(semanticHits, lexicalHits)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func lexicalHit(res database.MemorySearchResult) Hit {
	return Hit{
		ID:        res.ID,
		Title:     res.Title,
		Snippet:   truncateRunes(res.Content, snippetMaxRunes),
		Text:      res.Content,
		Score:     res.Rank,
		Metadata:  cloneStringMap(res.Metadata),
		CreatedAt: res.CreatedAt,
	}
}

func semanticHit(res database.MemorySearchResult) Hit {
	return Hit{
		ID:        res.ID,
		Title:     res.Title,
		Text:      res.Content,
		Score:     res.Similarity,
		Metadata:  cloneStringMap(res.Metadata),
		CreatedAt: res.CreatedAt,
	}
}

type hybridCandidate struct {
	id          string
	hit         Hit
	semantic    float64
	lexical     float64
	hasSemantic bool
	hasLexical  bool
	score       float64
}

// mergeHybrid combines per-signal result lists into one ranked list. Each
// signal is normalized by its own maximum and weighted 0.7 semantic /
// 0.3 lexical; for candidates carrying only one signal the weights
// renormalize so the missing side does not drag the score down. Ordering is
// deterministic: score descending, then ID.
func mergeHybrid(semantic, lexical []Hit) []Hit {
	candidates := make(map[string]*hybridCandidate)

	for _, h := range semantic {
		cand := ensureCandidate(candidates, h)
		if h.Score > cand.semantic {
			cand.semantic = h.Score
		}
		cand.hasSemantic = true
	}
	for _, h := range lexical {
		cand := ensureCandidate(candidates, h)
		if h.Score > cand.lexical {
			cand.lexical = h.Score
		}
		cand.hasLexical = true
	}

	var maxSemantic, maxLexical float64
	for _, cand := range candidates {
		if cand.semantic > maxSemantic {
			maxSemantic = cand.semantic
		}
		if cand.lexical > maxLexical {
			maxLexical = cand.lexical
		}
	}

	list := make([]*hybridCandidate, 0, len(candidates))
	for _, cand := range candidates {
		weighted := 0.0
		weightSum := 0.0
		if cand.hasSemantic && maxSemantic > 0 {
			weighted += 0.7 * (cand.semantic / maxSemantic)
			weightSum += 0.7
		}
		if cand.hasLexical && maxLexical > 0 {
			weighted += 0.3 * (cand.lexical / maxLexical)
			weightSum += 0.3
		}
		if weightSum > 0 {
			cand.score = weighted / weightSum
		}
		list = append(list, cand)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].score == list[j].score {
			return list[i].id < list[j].id
		}
		return list[i].score > list[j].score
	})

	merged := make([]Hit, 0, len(list))
	for _, cand := range list {
		hit := cand.hit
		hit.Score = cand.score
		merged = append(merged, hit)
	}
	return merged
}

func ensureCandidate(candidates map[string]*hybridCandidate, h Hit) *hybridCandidate {
	id := h.ID.String()
	if cand, ok := candidates[id]; ok {
		if cand.hit.Title == "" {
			cand.hit.Title = h.Title
		}
		if cand.hit.Snippet == "" {
			cand.hit.Snippet = h.Snippet
		}
		if cand.hit.Text == "" {
			cand.hit.Text = h.Text
		}
		if cand.hit.Preview == "" {
			cand.hit.Preview = h.Preview
		}
		return cand
	}

	cand := &hybridCandidate{id: id, hit: h}
	candidates[id] = cand
	return cand
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "..."
}
