package handlers

import (
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	apperrors "github.com/VishwasK/agentmemory/errors"
	"github.com/VishwasK/agentmemory/memory"
	"github.com/VishwasK/agentmemory/web/services"
	"github.com/VishwasK/agentmemory/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MemoriesHandler struct {
	store     *memory.Store
	importer  *services.ImportService
	listLimit int
	logger    *zap.Logger
}

func NewMemoriesHandler(store *memory.Store, importer *services.ImportService, listLimit int, logger *zap.Logger) *MemoriesHandler {
	return &MemoriesHandler{
		store:     store,
		importer:  importer,
		listLimit: listLimit,
		logger:    logger,
	}
}

// List returns the user's most recent memories.
func (h *MemoriesHandler) List(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		userID = defaultUserID
	}

	hits, err := h.store.ListRecent(c.Request.Context(), userID, h.listLimit)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, err.Error(), h.logger,
			zap.String("user_id", userID))
		return
	}

	memories := make([]types.MemorySummary, 0, len(hits))
	for _, hit := range hits {
		memories = append(memories, types.MemorySummary{
			ID:        hit.ID.String(),
			Title:     hit.Title,
			Preview:   hit.Preview,
			CreatedAt: hit.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, types.MemoriesResponse{Memories: memories, Count: len(memories)})
}

// Import ingests an uploaded document into the caller's memories.
func (h *MemoriesHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "File is required")
		return
	}

	sanitized := sanitizeFilename(file.Filename)
	if sanitized == "" {
		respondWithClientError(c, http.StatusBadRequest, "Invalid or unsafe filename.")
		return
	}

	ext := strings.ToLower(filepath.Ext(sanitized))
	if ext != ".pdf" && ext != ".txt" && ext != ".md" {
		respondWithClientError(c, http.StatusBadRequest, "Invalid file type. Please upload a PDF, text, or markdown file.")
		return
	}

	userID := resolveUserID(c, c.PostForm("user_id"))

	imported, err := h.importer.ImportUpload(c.Request.Context(), userID, file, sanitized)
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			respondWithClientError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, err.Error(), h.logger,
			zap.String("user_id", userID), zap.String("filename", sanitized))
		return
	}

	c.JSON(http.StatusOK, types.ImportResponse{Imported: imported, Title: sanitized})
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._\s-]`)

// sanitizeFilename strips path tricks and hostile characters from an upload
// name.
func sanitizeFilename(filename string) string {
	sanitized := strings.Trim(filename, " .")
	sanitized = strings.ReplaceAll(sanitized, "..", "")
	sanitized = unsafeFilenameChars.ReplaceAllString(sanitized, "")
	if len(sanitized) > 255 {
		sanitized = sanitized[:255]
	}
	return sanitized
}
