package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"mls_backend/internal/app"
	"mls_backend/internal/config"
	"mls_backend/pkg/database"
)

func main() {
	forceMigrate := flag.Bool("force-migrate", false, "run schema migration before serving")
	migrateOnly := flag.Bool("migrate-only", false, "run schema migration and exit")
	configPath := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ForceMigrate = *forceMigrate
	cfg.MigrateOnly = *migrateOnly

	if cfg.MigrateOnly {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration complete")
		return
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
