package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	MessagesPerMinute int           // Max chat messages per user per minute
	ImportsPerHour    int           // Max document imports per user per hour
	BurstSize         int           // Allow burst of N messages
	CleanupInterval   time.Duration // How often to clean up idle limiters
}

// UserRateLimiter tracks request allowances per user handle. Chat messages
// and document imports draw from separate buckets.
type UserRateLimiter struct {
	config        RateLimiterConfig
	messageLimits map[string]*rate.Limiter
	importLimits  map[string]*rate.Limiter
	mu            sync.Mutex
	logger        *zap.Logger
	stopCleanup   chan struct{}
}

// NewUserRateLimiter creates a rate limiter and starts its cleanup routine.
func NewUserRateLimiter(config RateLimiterConfig, logger *zap.Logger) *UserRateLimiter {
	if config.MessagesPerMinute <= 0 {
		config.MessagesPerMinute = 20
	}
	if config.ImportsPerHour <= 0 {
		config.ImportsPerHour = 10
	}
	if config.BurstSize <= 0 {
		config.BurstSize = 5
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 1 * time.Hour
	}

	limiter := &UserRateLimiter{
		config:        config,
		messageLimits: make(map[string]*rate.Limiter),
		importLimits:  make(map[string]*rate.Limiter),
		logger:        logger,
		stopCleanup:   make(chan struct{}),
	}

	go limiter.cleanupRoutine()

	return limiter
}

func (rl *UserRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup drops every per-user bucket once a map grows past a threshold.
// Abandoned handles would otherwise accumulate forever.
func (rl *UserRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if count := len(rl.messageLimits); count > 1000 {
		rl.messageLimits = make(map[string]*rate.Limiter)
		rl.logger.Info("Reset message rate limiters", zap.Int("count", count))
	}
	if count := len(rl.importLimits); count > 1000 {
		rl.importLimits = make(map[string]*rate.Limiter)
		rl.logger.Info("Reset import rate limiters", zap.Int("count", count))
	}
}

// Stop terminates the cleanup routine.
func (rl *UserRateLimiter) Stop() {
	close(rl.stopCleanup)
}

// AllowMessage reports whether the user may send another chat message,
// consuming one token if so.
func (rl *UserRateLimiter) AllowMessage(userID string) bool {
	return rl.messageLimiter(userID).Allow()
}

// AllowImport reports whether the user may import another document,
// consuming one token if so.
func (rl *UserRateLimiter) AllowImport(userID string) bool {
	return rl.importLimiter(userID).Allow()
}

// MessageAllowance returns the remaining and maximum message tokens for the
// user.
func (rl *UserRateLimiter) MessageAllowance(userID string) (remaining, limit int) {
	return availableTokens(rl.messageLimiter(userID)), rl.config.MessagesPerMinute
}

// ImportAllowance returns the remaining and maximum import tokens for the
// user.
func (rl *UserRateLimiter) ImportAllowance(userID string) (remaining, limit int) {
	return availableTokens(rl.importLimiter(userID)), rl.config.ImportsPerHour
}

func (rl *UserRateLimiter) messageLimiter(userID string) *rate.Limiter {
	perSecond := rate.Limit(float64(rl.config.MessagesPerMinute) / 60.0)
	return rl.limiterFor(rl.messageLimits, userID, perSecond, rl.config.BurstSize)
}

func (rl *UserRateLimiter) importLimiter(userID string) *rate.Limiter {
	// Imports refill hourly, so the whole hourly quota is usable as burst.
	perSecond := rate.Limit(float64(rl.config.ImportsPerHour) / 3600.0)
	return rl.limiterFor(rl.importLimits, userID, perSecond, rl.config.ImportsPerHour)
}

func (rl *UserRateLimiter) limiterFor(limits map[string]*rate.Limiter, userID string, limit rate.Limit, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lim, exists := limits[userID]
	if !exists {
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(limit, burst)
		limits[userID] = lim
	}
	return lim
}

func availableTokens(lim *rate.Limiter) int {
	tokens := int(lim.Tokens())
	if tokens < 0 {
		return 0
	}
	return tokens
}

// RateLimitMiddleware enforces per-user limits on a route. limitType selects
// the bucket: "message" for chat traffic, "import" for document imports.
func RateLimitMiddleware(limiter *UserRateLimiter, limitType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "identity not initialized"})
			return
		}

		var allowed bool
		var remaining, limit int

		switch limitType {
		case "message":
			allowed = limiter.AllowMessage(userID)
			remaining, limit = limiter.MessageAllowance(userID)
		case "import":
			allowed = limiter.AllowImport(userID)
			remaining, limit = limiter.ImportAllowance(userID)
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown limit type"})
			return
		}

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", formatInt(limit))
		c.Header("X-RateLimit-Remaining", formatInt(remaining))

		if !allowed {
			// Get logger from context
			logger, _ := c.Get("logger")
			zapLogger, _ := logger.(*zap.Logger)
			if zapLogger != nil {
				zapLogger.Warn("Rate limit exceeded",
					zap.String("user_id", userID),
					zap.String("limit_type", limitType),
					zap.Int("limit", limit))
			}

			c.Header("Retry-After", "60") // Suggest retry after 60 seconds
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"limit":       limit,
				"remaining":   remaining,
				"retry_after": 60,
			})
			return
		}

		c.Next()
	}
}

// formatInt converts int to string for headers
func formatInt(n int) string {
	return strconv.Itoa(n)
}
