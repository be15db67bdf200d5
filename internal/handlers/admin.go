package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"spot-rental-api/internal/cleanup"
	"spot-rental-api/internal/database"
	"spot-rental-api/internal/ratelimit"
	"spot-rental-api/internal/snapshot"
)

// AdminHandler exposes operational views: table counts, per-spot stats
// history and the deletion audit log.
type AdminHandler struct {
	db       *database.DB
	snapshot *snapshot.Service
	cleanup  *cleanup.Service
	limiter  *ratelimit.Limiter
	log      zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(db *database.DB, limiter *ratelimit.Limiter, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		db:       db,
		snapshot: snapshot.NewService(db, log),
		cleanup:  cleanup.NewService(db, log),
		limiter:  limiter,
		log:      log,
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.db.GetStats()
	if err != nil {
		h.serverError(c, err)
		return
	}

	cities, err := h.db.TopCities(20)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts":     stats,
		"top_cities": cities,
		"rate_limit": h.limiter.GetStats(c.ClientIP()),
	})
}

// GetSpotHistory returns snapshot history for a spot
func (h *AdminHandler) GetSpotHistory(c *gin.Context) {
	spotID, ok := parseSpotID(c)
	if !ok {
		return
	}
	if _, err := h.db.GetSpotByID(spotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": spotNotFoundMessage})
			return
		}
		h.serverError(c, err)
		return
	}

	limitStr := c.DefaultQuery("limit", "30")
	limit, _ := strconv.Atoi(limitStr)

	snapshots, err := h.snapshot.GetSpotHistory(spotID, limit)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spotId":    spotID,
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// GetDeleteLogs returns recent delete log entries
func (h *AdminHandler) GetDeleteLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.cleanup.GetRecentDeleteLogs(limit)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

func (h *AdminHandler) serverError(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Server error",
		"errors":  err.Error(),
	})
}
