package main

import (
	"context"
	"log"
	"net/http"

	webAdapter "ledger-insight/internal/adapters/web"
	"ledger-insight/internal/ai"
	"ledger-insight/internal/app"
	"ledger-insight/internal/cache"
	"ledger-insight/internal/config"
	"ledger-insight/internal/core"
	"ledger-insight/internal/db"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var reportCache *cache.Cache
	if cfg.CacheEnabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		reportCache = cache.New(client, cfg.CacheTTL)
		if err := reportCache.ListenForInvalidation(ctx); err != nil {
			log.Fatalf("cache subscription: %v", err)
		}
	} else {
		logger.Warn("REDIS_ADDR not set, report caching disabled")
	}

	var agent app.AgentService
	if cfg.AIEnabled() {
		agent = ai.NewAgent(cfg.OpenAIAPIKey)
	} else {
		logger.Warn("OPENAI_API_KEY not set, data assistant disabled")
	}

	gateway := core.NewLedgerGateway(pool)
	users := core.NewUserService(pool)
	svc := app.NewAppService(gateway, users, agent, reportCache)

	handler := webAdapter.NewHandler(svc, logger, cfg.AllowedOrigins, cfg.JWTSecret, cfg.SessionTTL)

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      handler,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}
	logger.Info("server starting", "addr", cfg.AppAddr, "env", cfg.AppEnv)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
