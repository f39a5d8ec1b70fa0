// healthboard-backfill walks an arbitrary date range and fetches every day
// not yet in the ledger, for seeding a fresh deployment with history beyond
// the automatic window.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/healthboard/internal/config"
	"github.com/claude/healthboard/internal/coordinator"
	"github.com/claude/healthboard/internal/daycache"
	"github.com/claude/healthboard/internal/healthstore"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type stats struct {
	fetched int
	skipped int
	failed  int
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	startStr := flag.String("start", "", "first date to fetch (YYYY-MM-DD)")
	endStr := flag.String("end", "", "last date to fetch, inclusive (YYYY-MM-DD, default yesterday)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("healthboard-backfill", Version)
		return
	}

	// Progress goes to stderr; the summary prints to stdout.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *startStr == "" {
		fmt.Fprintf(os.Stderr, "Usage: healthboard-backfill -config <file> -start <YYYY-MM-DD> [-end <YYYY-MM-DD>]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

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

	start, err := time.ParseInLocation("2006-01-02", *startStr, loc)
	if err != nil {
		log.Error("invalid -start date", "error", err)
		os.Exit(1)
	}
	end := daycache.DayKey(time.Now(), loc).AddDate(0, 0, -1)
	if *endStr != "" {
		end, err = time.ParseInLocation("2006-01-02", *endStr, loc)
		if err != nil {
			log.Error("invalid -end date", "error", err)
			os.Exit(1)
		}
	}
	if end.Before(start) {
		log.Error("end date precedes start date", "start", *startStr, "end", end.Format("2006-01-02"))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := healthstore.NewPG(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ledgerDir := cfg.Fetch.LedgerDir
	if ledgerDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		ledgerDir = home + "/.healthboard"
	}
	ledger, err := daycache.OpenSQLiteLedger(ledgerDir)
	if err != nil {
		log.Error("failed to open fetch ledger", "dir", ledgerDir, "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	coord := coordinator.New(store, daycache.New(ledger), coordinator.Config{
		Loc:                 loc,
		TrustedSleepSources: cfg.Fetch.TrustedSources,
		SessionGap:          cfg.Fetch.SessionGap(),
	}, log)
	go coord.Run(ctx)

	var st stats
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if has, err := ledger.Has(day); err == nil && has {
			st.skipped++
			continue
		}

		if _, err := coord.FetchDay(ctx, day); err != nil {
			// A failed day does not stop the walk; rerun to retry.
			log.Warn("day fetch failed, continuing", "day", day.Format("2006-01-02"), "error", err)
			st.failed++
			continue
		}
		st.fetched++
		log.Info("day fetched", "day", day.Format("2006-01-02"))
	}

	printStats(st)
	if st.failed > 0 {
		os.Exit(1)
	}
}

func printStats(st stats) {
	fmt.Println()
	fmt.Println("=== Backfill Summary ===")
	fmt.Printf("  Days fetched:  %d\n", st.fetched)
	fmt.Printf("  Days skipped:  %d (already in ledger)\n", st.skipped)
	fmt.Printf("  Days failed:   %d\n", st.failed)
	fmt.Println()
}
