// Package llm wraps the OpenAI-compatible chat completion and embedding APIs
// behind the two calls this server makes.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VishwasK/agentmemory/config"
	apperrors "github.com/VishwasK/agentmemory/errors"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type Client struct {
	cfg    *config.Config
	api    *openai.Client
	logger *zap.Logger
}

// New builds a client from config. OPENAI_BASE_URL points it at any
// OpenAI-compatible server.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return &Client{
		cfg:    cfg,
		api:    openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}
}

// Complete runs one system+user chat completion and returns the assistant's
// reply, retrying transient failures with backoff.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	model := c.cfg.ChatModel
	if model == "" {
		model = openai.GPT4oMini
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries(); attempt++ {
		callCtx, cancel := c.callContext(ctx)
		resp, err := c.api.CreateChatCompletion(callCtx, req)
		cancel()

		if err == nil {
			if len(resp.Choices) == 0 {
				return "", apperrors.WrapError(apperrors.ErrLLMCommunication, "chat completion returned no choices")
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if !isRetryable(err) {
			break
		}
		c.logger.Warn("Chat completion failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1))
		c.backoffSleep(attempt)
	}
	return "", apperrors.WrapErrorf(apperrors.ErrLLMCommunication, "chat completion: %v", lastErr)
}

// Embed generates an embedding vector for the provided text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	model := c.cfg.EmbeddingModel
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(model),
	}
	if c.cfg.EmbeddingDimensions > 0 {
		req.Dimensions = c.cfg.EmbeddingDimensions
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries(); attempt++ {
		callCtx, cancel := c.callContext(ctx)
		resp, err := c.api.CreateEmbeddings(callCtx, req)
		cancel()

		if err == nil {
			if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
				return nil, apperrors.WrapError(apperrors.ErrEmbeddingFailed, "embedding response was empty")
			}
			return resp.Data[0].Embedding, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if !isRetryable(err) {
			break
		}
		c.logger.Warn("Embedding request failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1))
		c.backoffSleep(attempt)
	}
	return nil, apperrors.WrapErrorf(apperrors.ErrEmbeddingFailed, "create embedding: %v", lastErr)
}

func (c *Client) maxRetries() int {
	if c.cfg.MaxRetries > 0 {
		return c.cfg.MaxRetries
	}
	return 3
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.cfg.LLMRequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// isRetryable treats rate limiting and server-side failures as transient.
// Auth and request-shape errors fail immediately.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	return true
}

func (c *Client) backoffSleep(attempt int) {
	// Exponential backoff with jitter and cap
	base := c.cfg.RetryDelaySeconds
	if base <= 0 {
		base = time.Second
	}
	d := base * time.Duration(1<<attempt)
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	jitter := time.Duration(float64(d) * 0.1)
	time.Sleep(d - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter+1)))
}
