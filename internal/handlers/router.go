package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"spot-rental-api/internal/auth"
	"spot-rental-api/internal/cache"
	"spot-rental-api/internal/database"
	"spot-rental-api/internal/ratelimit"
	"spot-rental-api/internal/search"
)

// RouterConfig carries everything the router needs. Cache and Searcher may
// be nil when disabled.
type RouterConfig struct {
	DB             *database.DB
	Tokens         *auth.Manager
	Cache          *cache.Cache
	Searcher       *search.Client
	Limiter        *ratelimit.Limiter
	Log            zerolog.Logger
	AllowedOrigins []string
	LogRequests    bool
}

// NewRouter wires up every route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	if cfg.LogRequests {
		router.Use(RequestLogger(cfg.Log))
	}
	if cfg.Limiter != nil {
		router.Use(cfg.Limiter.Middleware())
	}
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		router.Use(cors.New(corsConfig))
	}

	spotHandler := NewSpotHandler(cfg.DB, cfg.Cache, cfg.Searcher, cfg.Log)
	authHandler := NewAuthHandler(cfg.DB, cfg.Tokens, cfg.Log)
	adminHandler := NewAdminHandler(cfg.DB, cfg.Limiter, cfg.Log)

	requireAuth := cfg.Tokens.RequireAuth()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", requireAuth, authHandler.Me)
	}

	spots := router.Group("/spots")
	{
		spots.GET("", spotHandler.ListSpots)
		spots.GET("/current", requireAuth, spotHandler.ListCurrentUserSpots)
		spots.GET("/search", spotHandler.SearchSpots)
		spots.GET("/:spotId", spotHandler.GetSpot)
		spots.POST("", requireAuth, spotHandler.CreateSpot)
		spots.PUT("/:spotId", requireAuth, spotHandler.UpdateSpot)
		spots.DELETE("/:spotId", requireAuth, spotHandler.DeleteSpot)
		spots.POST("/:spotId/images", requireAuth, spotHandler.AddSpotImage)
	}

	admin := router.Group("/admin", requireAuth)
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/spots/:spotId/history", adminHandler.GetSpotHistory)
		admin.GET("/delete-logs", adminHandler.GetDeleteLogs)
	}

	return router
}
