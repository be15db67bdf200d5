package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter enforces per-client request rate limits using sliding time
// windows. Clients are keyed by IP.
type Limiter struct {
	requestsPerMinute int
	requestsPerHour   int
	enabled           bool

	clients map[string]*clientWindows
	mu      sync.Mutex
}

type clientWindows struct {
	minuteWindow []time.Time
	hourWindow   []time.Time
	lastSeen     time.Time
}

// NewLimiter creates a rate limiter with the given per-client limits.
func NewLimiter(requestsPerMinute, requestsPerHour int, enabled bool) *Limiter {
	return &Limiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		enabled:           enabled,
		clients:           make(map[string]*clientWindows),
	}
}

// AllowRequest checks if a request from the given client is allowed.
// Returns true if allowed, false if a limit is exceeded.
func (l *Limiter) AllowRequest(clientKey string) bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cw, ok := l.clients[clientKey]
	if !ok {
		cw = &clientWindows{}
		l.clients[clientKey] = cw
	}
	cw.lastSeen = now

	// Clean up old entries
	cw.minuteWindow = filterTimes(cw.minuteWindow, now.Add(-1*time.Minute))
	cw.hourWindow = filterTimes(cw.hourWindow, now.Add(-1*time.Hour))

	// Check limits
	if l.requestsPerMinute > 0 && len(cw.minuteWindow) >= l.requestsPerMinute {
		return false
	}
	if l.requestsPerHour > 0 && len(cw.hourWindow) >= l.requestsPerHour {
		return false
	}

	// Record the request
	cw.minuteWindow = append(cw.minuteWindow, now)
	cw.hourWindow = append(cw.hourWindow, now)

	// Drop clients idle for over an hour so the map cannot grow forever.
	for key, other := range l.clients {
		if now.Sub(other.lastSeen) > time.Hour {
			delete(l.clients, key)
		}
	}

	return true
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Middleware rejects over-limit requests with a 429.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.AllowRequest(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}

// Stats reports the limiter's current occupancy for a client.
type Stats struct {
	Enabled           bool `json:"enabled"`
	RequestsLastMin   int  `json:"requests_last_minute"`
	RequestsLastHour  int  `json:"requests_last_hour"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	RequestsPerHour   int  `json:"requests_per_hour"`
}

// GetStats returns current usage for the given client key.
func (l *Limiter) GetStats(clientKey string) Stats {
	if !l.enabled {
		return Stats{Enabled: false}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stats := Stats{
		Enabled:           true,
		RequestsPerMinute: l.requestsPerMinute,
		RequestsPerHour:   l.requestsPerHour,
	}
	if cw, ok := l.clients[clientKey]; ok {
		now := time.Now()
		stats.RequestsLastMin = len(filterTimes(cw.minuteWindow, now.Add(-1*time.Minute)))
		stats.RequestsLastHour = len(filterTimes(cw.hourWindow, now.Add(-1*time.Hour)))
	}
	return stats
}
