package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hexa-center/book-a-room/internal/config"
	"github.com/hexa-center/book-a-room/internal/twinfield"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config.yaml")
	code := flag.String("code", "", "OAuth authorization code from the redirect")
	timeout := flag.Duration("timeout", 30*time.Second, "API call timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *code == "" {
		fmt.Fprintf(os.Stderr, "ERROR: no --code flag provided\n")
		fmt.Fprintf(os.Stderr, "Usage: twinfield-check --code <authorization code> [--config <path>] [--timeout 30s]\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Twinfield Connection Check ===")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session := twinfield.NewSession(cfg.Twinfield, logger)
	if err := session.Connect(ctx, *code); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: could not establish session: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK: session established")

	client := twinfield.NewClient(cfg.Twinfield, session, logger)
	customers, err := client.ListCustomers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: could not list customers: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: office %s reachable, %d customers found\n", cfg.Twinfield.Office, len(customers))
	for _, c := range customers {
		fmt.Printf("  %s  %s\n", c.Code, c.Name)
	}
}
