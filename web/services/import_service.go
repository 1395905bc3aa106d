package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/VishwasK/agentmemory/config"
	apperrors "github.com/VishwasK/agentmemory/errors"
	"github.com/VishwasK/agentmemory/memory"

	"github.com/jdkato/prose/v2"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImportService turns uploaded documents into chunked memories.
type ImportService struct {
	store  *memory.Store
	cfg    *config.Config
	logger *zap.Logger
}

func NewImportService(store *memory.Store, cfg *config.Config, logger *zap.Logger) *ImportService {
	return &ImportService{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// ImportUpload extracts text from an upload, chunks it, and stores each chunk
// as its own memory. It returns the number of chunks stored.
func (is *ImportService) ImportUpload(ctx context.Context, userID string, header *multipart.FileHeader, name string) (int, error) {
	file, err := header.Open()
	if err != nil {
		return 0, apperrors.WrapError(err, "failed to open upload")
	}
	defer file.Close()

	var text string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		text, err = is.extractPDF(file, header.Size)
	default:
		text, err = readPlainText(file)
	}
	if err != nil {
		return 0, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return 0, apperrors.WrapErrorf(apperrors.ErrInvalidInput, "document %q contains no extractable text", name)
	}

	chunks := is.chunk(text)
	if err := is.storeChunks(ctx, userID, name, chunks); err != nil {
		return 0, err
	}

	is.logger.Info("Document imported",
		zap.String("user_id", userID),
		zap.String("filename", name),
		zap.Int("chunks", len(chunks)))

	return len(chunks), nil
}

// extractPDF pulls plain text out of every readable page. Pages the parser
// cannot decode are skipped, not fatal.
func (is *ImportService) extractPDF(file multipart.File, size int64) (string, error) {
	reader, err := pdf.NewReader(file, size)
	if err != nil {
		return "", apperrors.WrapError(err, "failed to open PDF")
	}

	var fullText strings.Builder
	totalPages := reader.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			is.logger.Warn("Skipping null page", zap.Int("page", pageNum))
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			is.logger.Warn("Failed to extract text from page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		fullText.WriteString(text)
		fullText.WriteString("\n\n")
	}

	return fullText.String(), nil
}

func readPlainText(file multipart.File) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", apperrors.WrapError(err, "failed to read upload")
	}
	return string(data), nil
}

// chunk splits document text into storage-sized pieces. prose segments the
// sentences; its tokenizer chokes on some PDF output, so the rule-based
// splitter is the fallback.
func (is *ImportService) chunk(text string) []string {
	maxChars := is.cfg.ImportMaxChunkChars

	doc, err := prose.NewDocument(text)
	if err != nil {
		is.logger.Warn("Sentence segmentation failed, using rule-based splitter", zap.Error(err))
		return memory.ChunkDocument(text, maxChars)
	}

	sentences := doc.Sentences()
	if len(sentences) == 0 {
		return memory.ChunkDocument(text, maxChars)
	}

	parts := make([]string, 0, len(sentences))
	for _, sent := range sentences {
		parts = append(parts, sent.Text)
	}

	return memory.PackSentences(parts, maxChars)
}

// storeChunks writes chunks concurrently. Any failed chunk fails the import.
func (is *ImportService) storeChunks(ctx context.Context, userID, name string, chunks []string) error {
	embed := memory.ParseSearchMode(is.cfg.SearchMode) != memory.ModeLexical

	concurrency := is.cfg.ImportConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, chunk := range chunks {
		rec := memory.Record{
			Title:    fmt.Sprintf("%s (part %d)", name, i+1),
			Labels:   []string{"document"},
			Text:     chunk,
			Metadata: map[string]string{"source": fmt.Sprintf("document %s", name)},
			Embed:    embed,
		}

		g.Go(func() error {
			if _, err := is.store.Add(gctx, userID, rec); err != nil {
				return apperrors.WrapErrorf(err, "failed to store part %d of %s", i+1, name)
			}
			return nil
		})
	}

	return g.Wait()
}
