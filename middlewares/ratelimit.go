package middlewares

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware bounds how often a single user may hit an endpoint.
// Evaluation requests fan out to a paid judging backend, so duplicates are
// worth refusing early.
func RateLimitMiddleware(r rate.Limit, burst int) gin.HandlerFunc {
	var mutex sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		userID := c.GetString("userId")
		if userID == "" {
			userID = c.ClientIP()
		}

		mutex.Lock()
		limiter, exists := limiters[userID]
		if !exists {
			limiter = rate.NewLimiter(r, burst)
			limiters[userID] = limiter
		}
		mutex.Unlock()

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
