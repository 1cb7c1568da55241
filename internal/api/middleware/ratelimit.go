package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	clientIdleTimeout = 30 * time.Minute
	cleanupInterval   = 10 * time.Minute
)

// clientLimiter stores the token bucket of a single client.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware limits requests per client IP.
type RateLimiterMiddleware struct {
	clients    map[string]*clientLimiter
	mu         sync.Mutex
	refillRate rate.Limit
	bucketSize int
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewRateLimiterMiddleware creates a limiter allowing bucketSize requests in a
// burst, refilled at refillRate tokens per second. Stop must be called to end
// the cleanup goroutine.
func NewRateLimiterMiddleware(refillRate, bucketSize int) *RateLimiterMiddleware {
	rm := &RateLimiterMiddleware{
		clients:    make(map[string]*clientLimiter),
		refillRate: rate.Limit(refillRate),
		bucketSize: bucketSize,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go rm.cleanupClients()
	return rm
}

// getClientLimiter retrieves or creates the limiter for a given client.
func (rm *RateLimiterMiddleware) getClientLimiter(clientKey string) *rate.Limiter {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	cl, exists := rm.clients[clientKey]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rm.refillRate, rm.bucketSize)}
		rm.clients[clientKey] = cl
	}
	cl.lastSeen = rm.now()
	return cl.limiter
}

// cleanupClients periodically removes idle client entries.
func (rm *RateLimiterMiddleware) cleanupClients() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rm.stop:
			return
		case <-ticker.C:
			if n := rm.evictIdle(); n > 0 {
				log.Debug().Int("removed", n).Msg("rate limiter cleanup")
			}
		}
	}
}

func (rm *RateLimiterMiddleware) evictIdle() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	count := 0
	for id, cl := range rm.clients {
		if rm.now().Sub(cl.lastSeen) > clientIdleTimeout {
			delete(rm.clients, id)
			count++
		}
	}
	return count
}

// Stop ends the cleanup goroutine.
func (rm *RateLimiterMiddleware) Stop() {
	rm.stopOnce.Do(func() { close(rm.stop) })
}

// Limit creates the Gin middleware handler.
func (rm *RateLimiterMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := c.ClientIP()
		if !rm.getClientLimiter(clientKey).Allow() {
			log.Warn().Str("client", clientKey).Str("path", c.FullPath()).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}
