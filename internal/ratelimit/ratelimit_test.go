package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowRequestMinuteLimit(t *testing.T) {
	l := NewLimiter(3, 0, true)

	for i := 0; i < 3; i++ {
		assert.True(t, l.AllowRequest("client-a"), "request %d should pass", i+1)
	}
	assert.False(t, l.AllowRequest("client-a"))

	// Other clients have their own windows.
	assert.True(t, l.AllowRequest("client-b"))
}

func TestAllowRequestHourLimit(t *testing.T) {
	l := NewLimiter(0, 2, true)

	assert.True(t, l.AllowRequest("c"))
	assert.True(t, l.AllowRequest("c"))
	assert.False(t, l.AllowRequest("c"))
}

func TestAllowRequestDisabled(t *testing.T) {
	l := NewLimiter(1, 1, false)

	for i := 0; i < 10; i++ {
		assert.True(t, l.AllowRequest("c"))
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l := NewLimiter(2, 0, true)
	router := gin.New()
	router.Use(l.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestGetStats(t *testing.T) {
	l := NewLimiter(10, 100, true)
	require.True(t, l.AllowRequest("c"))
	require.True(t, l.AllowRequest("c"))

	stats := l.GetStats("c")
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.RequestsLastMin)
	assert.Equal(t, 2, stats.RequestsLastHour)
	assert.Equal(t, 10, stats.RequestsPerMinute)
	assert.Equal(t, 100, stats.RequestsPerHour)

	// Unknown clients read as zero usage.
	assert.Zero(t, l.GetStats("unknown").RequestsLastMin)

	disabled := NewLimiter(10, 100, false)
	assert.False(t, disabled.GetStats("c").Enabled)
}
