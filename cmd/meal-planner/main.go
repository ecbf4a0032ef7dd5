// cmd/meal-planner/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mcp-meal-planner/internal/config"
	"mcp-meal-planner/internal/logger"
	"mcp-meal-planner/internal/server"
)

var (
	configPath = flag.String("config", "", "Path to a YAML config file")
	transport  = flag.String("transport", "http", "Transport mode: http")
	port       = flag.Int("port", 0, "Port for HTTP transport")
	host       = flag.String("host", "", "Host address")
	address    = flag.String("address", "", "Address (alias for host)")
	dbPath     = flag.String("db-path", "", "Database path")
	seedFile   = flag.String("seed-file", "", "YAML food catalog to load at startup")
	logMode    = flag.String("log-mode", "", "Log mode: development or production")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("mcp-meal-planner version %s\n", server.Version)
		os.Exit(0)
	}
	if *transport != "http" {
		fmt.Fprintf(os.Stderr, "unsupported transport %q\n", *transport)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewMealPlanServer(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to create server", "error", err.Error())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err.Error())
		}
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err.Error())
	}
}

// applyFlags overrides config values with the flags given on the command line.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "host":
			cfg.Host = *host
		case "db-path":
			cfg.DBPath = *dbPath
		case "seed-file":
			cfg.SeedFile = *seedFile
		case "log-mode":
			cfg.LogMode = *logMode
		}
	})
	// address is an alias for host and wins when both are set
	if *address != "" {
		cfg.Host = *address
	}
}
