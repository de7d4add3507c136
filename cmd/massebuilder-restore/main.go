// Command massebuilder-restore loads a MasseBuilder backup file into the
// configured store, offline. Useful for seeding a fresh deployment from
// an export taken elsewhere.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/massebuilder/internal/backup"
	"github.com/claude/massebuilder/internal/config"
	"github.com/claude/massebuilder/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	backupPath := flag.String("path", "", "path to backup JSON file (required)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *backupPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: massebuilder-restore -config config.yaml -path MasseBuilder_2025-01-01.json\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	payload, err := os.ReadFile(*backupPath)
	if err != nil {
		log.Error("failed to read backup file", "path", *backupPath, "error", err)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := store.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	// Open the key-value store
	var kv store.KV
	switch cfg.Database.Backend {
	case config.BackendPostgres:
		pg, err := store.OpenPostgres(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		kv = pg
	default:
		sq, err := store.OpenSQLite(cfg.Database.Path)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer sq.Close()
		kv = sq
	}
	log.Info("store opened", "backend", cfg.Database.Backend)

	// Restore
	restored, err := backup.New(kv).ImportAll(ctx, payload)
	if err != nil {
		log.Error("restore failed", "error", err)
		os.Exit(1)
	}
	log.Info("restore complete", "keys", restored)
}
