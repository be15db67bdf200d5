package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"spot-rental-api/internal/auth"
	"spot-rental-api/internal/cache"
	"spot-rental-api/internal/config"
	"spot-rental-api/internal/database"
	"spot-rental-api/internal/handlers"
	"spot-rental-api/internal/logger"
	"spot-rental-api/internal/ratelimit"
	"spot-rental-api/internal/scheduler"
	"spot-rental-api/internal/search"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	log := logger.New(getEnv("LOG_LEVEL", cfg.Logging.Level))
	log.Info().Str("config", configPath).Msg("configuration loaded")

	// Secrets always win from the environment.
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.Database.Type).Msg("database connection failed")
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}
	log.Info().Str("type", cfg.Database.Type).Msg("database ready")

	tokens, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.GetTokenTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("auth setup failed")
	}

	var searcher *search.Client
	if cfg.Search.Enabled {
		searcher = search.NewClient(cfg.Search.Meilisearch.Host, cfg.Search.Meilisearch.APIKey)
		if err := searcher.InitIndex(); err != nil {
			log.Error().Err(err).Msg("search index init failed, continuing without search")
			searcher = nil
		} else {
			log.Info().Str("host", cfg.Search.Meilisearch.Host).Msg("search index ready")
		}
	}

	var responseCache *cache.Cache
	if cfg.Cache.Enabled {
		responseCache, err = cache.New(
			cfg.Cache.Redis.Addr,
			cfg.Cache.Redis.Password,
			cfg.Cache.Redis.DB,
			cfg.Cache.GetCacheTTL(),
		)
		if err != nil {
			log.Error().Err(err).Msg("redis unreachable, continuing without cache")
			responseCache = nil
		} else {
			defer responseCache.Close()
			log.Info().Str("addr", cfg.Cache.Redis.Addr).Msg("response cache ready")
		}
	}

	limiter := ratelimit.NewLimiter(
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.RequestsPerHour,
		cfg.RateLimit.Enabled,
	)

	sched := scheduler.New(db, cfg.Snapshot, searcher, responseCache, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}
	defer sched.Stop()

	router := handlers.NewRouter(handlers.RouterConfig{
		DB:             db,
		Tokens:         tokens,
		Cache:          responseCache,
		Searcher:       searcher,
		Limiter:        limiter,
		Log:            log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LogRequests:    cfg.Logging.LogRequests,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server starting")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
