package main

import (
	"context"
	"log"
	"os"

	cliAdapter "ledger-insight/internal/adapters/cli"
	"ledger-insight/internal/ai"
	"ledger-insight/internal/app"
	"ledger-insight/internal/config"
	"ledger-insight/internal/core"
	"ledger-insight/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var agent app.AgentService
	if cfg.AIEnabled() {
		agent = ai.NewAgent(cfg.OpenAIAPIKey)
	}

	gateway := core.NewLedgerGateway(pool)
	users := core.NewUserService(pool)
	svc := app.NewAppService(gateway, users, agent, nil)

	cliAdapter.Run(ctx, svc, os.Args[1:])
}
