package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"booka-backend/internal/shared/response"
)

const (
	rateLimitCleanupInterval = time.Minute
	rateLimitClientTTL       = 3 * time.Minute
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client address
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		clients: make(map[string]*rateLimitClient),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes one token for ip
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, ok := l.clients[ip]
	if !ok {
		client = &rateLimitClient{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = l.now()
	return client.limiter.AllowN(client.lastSeen, 1)
}

// Cleanup drops buckets idle for longer than the client TTL until ctx is done
func (l *IPRateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(rateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evict()
		case <-ctx.Done():
			return
		}
	}
}

func (l *IPRateLimiter) evict() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, client := range l.clients {
		if l.now().Sub(client.lastSeen) > rateLimitClientTTL {
			delete(l.clients, ip)
		}
	}
}

// RateLimit rejects callers that exhausted their bucket with HTTP 429
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(ClientIP(c)) {
			c.Header("Retry-After", "1")
			response.Abort(c, http.StatusTooManyRequests, response.CodeUnknown, "too many requests")
			return
		}
		c.Next()
	}
}
