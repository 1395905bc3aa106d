package handlers

import (
	"net/http"
	"strings"

	"github.com/VishwasK/agentmemory/web/middleware"
	"github.com/VishwasK/agentmemory/web/services"
	"github.com/VishwasK/agentmemory/web/templates/pages"
	"github.com/VishwasK/agentmemory/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultUserID keys memories for clients that send no user_id and carry no
// identity cookie.
const defaultUserID = "default_user"

type ChatHandler struct {
	chat   *services.ChatService
	logger *zap.Logger
}

func NewChatHandler(chat *services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// Index serves the chat page.
func (h *ChatHandler) Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pages.Chat().Render(c.Request.Context(), c.Writer); err != nil {
		h.logger.Error("Failed to render chat page", zap.Error(err))
	}
}

// SendMessage answers a single chat message.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Message is required")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		respondWithClientError(c, http.StatusBadRequest, "Message is required")
		return
	}

	userID := resolveUserID(c, req.UserID)

	resp, err := h.chat.Respond(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, err.Error(), h.logger,
			zap.String("user_id", userID))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// resolveUserID picks the memory owner for a request: an explicit user_id
// wins, then the identity cookie, then the shared default.
func resolveUserID(c *gin.Context, explicit string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	if handle := c.GetString(middleware.UserIDKey); handle != "" {
		return handle
	}
	return defaultUserID
}
