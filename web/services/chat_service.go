// Package services holds the request-scoped orchestration between the web
// layer and the memory store.
package services

import (
	"context"

	"github.com/VishwasK/agentmemory/config"
	"github.com/VishwasK/agentmemory/llm"
	"github.com/VishwasK/agentmemory/memory"
	"github.com/VishwasK/agentmemory/prompts"
	"github.com/VishwasK/agentmemory/web/format"
	"github.com/VishwasK/agentmemory/web/types"

	"go.uber.org/zap"
)

// ChatService runs one chat turn: recall memories, ask the model, remember
// the exchange.
type ChatService struct {
	store  *memory.Store
	llm    *llm.Client
	cfg    *config.Config
	logger *zap.Logger
}

func NewChatService(store *memory.Store, llmClient *llm.Client, cfg *config.Config, logger *zap.Logger) *ChatService {
	return &ChatService{
		store:  store,
		llm:    llmClient,
		cfg:    cfg,
		logger: logger,
	}
}

// Respond answers a user message with their stored memories as context.
// Recall failures degrade to an uninformed answer rather than failing the
// turn; only the model call itself is fatal.
func (cs *ChatService) Respond(ctx context.Context, userID, message string) (*types.ChatResponse, error) {
	query := memory.NormalizeQuery(message)
	if query != message {
		cs.logger.Debug("Normalized question for recall",
			zap.String("original", message),
			zap.String("query", query))
	}

	hits, err := cs.store.Search(ctx, userID, query, cs.cfg.SearchLimit, memory.ParseSearchMode(cs.cfg.SearchMode))
	if err != nil {
		cs.logger.Warn("Memory search failed, continuing without memories",
			zap.Error(err),
			zap.String("user_id", userID))
		hits = nil
	}

	ranked := memory.FilterAndRank(hits, message, cs.cfg.SearchLimit)
	snippets := make([]string, 0, len(ranked))
	for _, r := range ranked {
		snippets = append(snippets, r.Snippet)
	}

	systemPrompt := prompts.ChatSystemWithMemories(memory.FormatSnippets(ranked))

	answer, err := cs.llm.Complete(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	cs.store.AddExchangeAsync(userID, message, answer)

	return &types.ChatResponse{
		Response:     answer,
		ResponseHTML: format.RenderMarkdown(answer),
		MemoriesUsed: snippets,
		UserID:       userID,
	}, nil
}
