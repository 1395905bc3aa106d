package web

import (
	"context"
	"net/http"
	"time"

	"github.com/VishwasK/agentmemory/config"
	"github.com/VishwasK/agentmemory/llm"
	"github.com/VishwasK/agentmemory/memory"
	"github.com/VishwasK/agentmemory/web/handlers"
	"github.com/VishwasK/agentmemory/web/middleware"
	"github.com/VishwasK/agentmemory/web/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router      *gin.Engine
	logger      *zap.Logger
	rateLimiter *middleware.UserRateLimiter
	chat        *handlers.ChatHandler
	memories    *handlers.MemoriesHandler
}

func NewServer(cfg *config.Config, store *memory.Store, llmClient *llm.Client, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	// Expose the logger to middlewares that cannot take it as a parameter.
	router.Use(func(c *gin.Context) {
		c.Set("logger", logger)
		c.Next()
	})

	router.Use(middleware.Identity())

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		MessagesPerMinute: cfg.RateLimitMessagesPerMin,
		ImportsPerHour:    cfg.RateLimitImportsPerHour,
		BurstSize:         cfg.RateLimitBurstSize,
		CleanupInterval:   1 * time.Hour,
	}, logger)

	chatService := services.NewChatService(store, llmClient, cfg, logger)
	importService := services.NewImportService(store, cfg, logger)

	s := &Server{
		router:      router,
		logger:      logger,
		rateLimiter: rateLimiter,
		chat:        handlers.NewChatHandler(chatService, logger),
		memories:    handlers.NewMemoriesHandler(store, importService, cfg.ListLimit, logger),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.chat.Index)
	s.router.POST("/chat", middleware.RateLimitMiddleware(s.rateLimiter, "message"), s.chat.SendMessage)
	s.router.GET("/memories/:user_id", s.memories.List)
	s.router.POST("/memories/import", middleware.RateLimitMiddleware(s.rateLimiter, "import"), s.memories.Import)
	s.router.GET("/health", handlers.Health)
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		s.logger.Info("Starting web server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	s.rateLimiter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
