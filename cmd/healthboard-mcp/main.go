// healthboard-mcp is a stdio MCP bridge to a remote Healthboard server,
// for clients that speak stdio but keep their data on the tailnet.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/healthboard/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Healthboard server URL (e.g. https://healthboard.tail1234.ts.net)")
	timezone := flag.String("timezone", "", "IANA zone for day boundaries; must match the server (default UTC)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("healthboard-mcp", Version)
		return
	}

	// Logs go to stderr: stdout carries the MCP stream.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: healthboard-mcp -server <URL> [-timezone <zone>]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	loc := time.UTC
	if *timezone != "" {
		var err error
		loc, err = time.LoadLocation(*timezone)
		if err != nil {
			log.Error("unknown timezone", "zone", *timezone, "error", err)
			os.Exit(1)
		}
	}

	ds := mcp.NewHTTPClient(*serverURL, loc)
	srv := mcp.New(ds, loc, Version, log)

	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("mcp stdio server failed", "error", err)
		os.Exit(1)
	}
}
