package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// IssueWindow is the length of a submission-cap window.
const IssueWindow = 24 * time.Hour

// IssueRateLimiter caps issue submissions per user per window. The counter
// key is <prefix>:<user id> and expires one window after the first hit.
func IssueRateLimiter(rdb redis.Cmdable, prefix string, limit int, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		ctx := c.Request.Context()
		key := prefix + ":" + userID

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("redis incr")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limiter unavailable"})
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, IssueWindow).Err(); err != nil {
				log.Error().Err(err).Str("key", key).Msg("redis expire")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limiter unavailable"})
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := rdb.TTL(ctx, key).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "daily issue limit reached",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
