package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/healthboard/internal/config"
	"github.com/claude/healthboard/internal/coordinator"
	"github.com/claude/healthboard/internal/daycache"
	"github.com/claude/healthboard/internal/healthstore"
	"github.com/claude/healthboard/internal/mcp"
	"github.com/claude/healthboard/internal/models"
	"github.com/claude/healthboard/internal/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Healthboard starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Fetch.Location()
	if err != nil {
		log.Error("failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := healthstore.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect the health store
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := healthstore.NewPG(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("health store connected")

	// Authorization failure is not fatal: queries degrade to empty results.
	if err := store.RequestAuthorization(ctx, models.AllMetricKinds()); err != nil {
		log.Warn("health store authorization failed, queries will return no data", "error", err)
	}

	// Ledger + cache + coordinator
	var ledger daycache.Ledger
	if cfg.Fetch.LedgerDir != "" {
		ledger, err = daycache.OpenSQLiteLedger(cfg.Fetch.LedgerDir)
		if err != nil {
			log.Error("failed to open fetch ledger", "error", err)
			os.Exit(1)
		}
	} else {
		ledger = daycache.NewMemoryLedger()
	}
	defer ledger.Close()

	coord := coordinator.New(store, daycache.New(ledger), coordinator.Config{
		Loc:                 loc,
		BackfillDays:        cfg.Fetch.BackfillDays,
		TrustedSleepSources: cfg.Fetch.TrustedSources,
		SessionGap:          cfg.Fetch.SessionGap(),
	}, log)
	go coord.Run(ctx)

	if err := coord.StartBackfill(ctx); err != nil {
		log.Warn("failed to start backfill", "error", err)
	}

	// HTTP + MCP surfaces
	srv := server.New(coord, loc, cfg.Auth.APIKey, log)
	mcpSrv := mcp.New(coord, loc, Version, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server — tsnet or plain HTTP
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
