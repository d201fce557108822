// Command slugrepair re-derives every collection slug from its name and
// prints the rewritten rows. It is the offline form of
// POST /api/collections/repair-slugs.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"stone-catalog-service/internal/config"
	"stone-catalog-service/internal/logger"
	"stone-catalog-service/internal/slug"
	"stone-catalog-service/internal/store"
)

func main() {
	timeout := flag.Duration("timeout", time.Minute, "overall time limit for the repair")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Error loading configuration", zap.Error(err))
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		zap.NewExample().Fatal("Error building logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	s := store.NewPostgresStore(db, log.Named("store"))
	defer s.Close()

	changes, err := slug.RepairCollections(ctx, s)
	slug.LogChanges(log, changes)
	if err != nil {
		log.Error("Slug repair failed", zap.Int("updated", slug.Applied(changes)), zap.Error(err))
		s.Close()
		os.Exit(1)
	}
	log.Info("Slug repair finished", zap.Int("updated", slug.Applied(changes)))
}
