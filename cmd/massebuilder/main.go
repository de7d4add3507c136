package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	massebuilder "github.com/claude/massebuilder"
	"github.com/claude/massebuilder/internal/backup"
	"github.com/claude/massebuilder/internal/config"
	"github.com/claude/massebuilder/internal/mcp"
	"github.com/claude/massebuilder/internal/progress"
	"github.com/claude/massebuilder/internal/server"
	"github.com/claude/massebuilder/internal/session"
	"github.com/claude/massebuilder/internal/store"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("MasseBuilder starting", "version", Version)

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

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Open the key-value store
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	// Create services
	sessions := session.New(kv, log)
	progressLog := progress.New(kv, log)
	backupSvc := backup.New(kv)

	// Create server
	srv := server.New(sessions, progressLog, backupSvc, cfg.Auth.APIKey, log)
	srv.SetMCP(mcp.NewHTTP(mcp.New(sessions, progressLog, Version, log)))

	// Serve embedded frontend
	webDist, err := fs.Sub(massebuilder.WebFS, "web/dist")
	if err != nil {
		log.Error("failed to load embedded frontend", "error", err)
		os.Exit(1)
	}
	srv.SetFrontend(webDist)

	// Drive the rest timer
	go srv.Run(ctx)

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
