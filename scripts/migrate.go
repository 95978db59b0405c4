//go:build ignore

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/database"
	"github.com/johnquangdev/voice-receptionist/pkg/config"
)

// Usage: go run scripts/migrate.go [-down] [-steps N] [-dir migrations]
func main() {
	down := flag.Bool("down", false, "roll back instead of applying")
	steps := flag.Int("steps", 1, "migrations to roll back, 0 for all")
	dir := flag.String("dir", database.MigrationsDir, "migrations directory")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.NewPostgresDB(ctx, cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	var n int
	if *down {
		n, err = database.Rollback(db, *dir, *steps, log)
	} else {
		n, err = database.Migrate(db, *dir, log)
	}
	if err != nil {
		log.Fatal("❌ Migration failed", zap.Error(err))
	}

	log.Info("✅ Done", zap.Int("migrations", n), zap.Bool("down", *down))
	os.Exit(0)
}
