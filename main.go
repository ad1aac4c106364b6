package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/bookcatalog/internal/cli"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entrypoint"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run(ctx context.Context) error
}

func main() {
	config.LoadDotEnv()
	cfg := config.NewConfig()
	logging.Setup(cfg.Logging)

	name := "shell"
	var args []string
	if len(os.Args) >= 2 {
		name, args = os.Args[1], os.Args[2:]
	}

	var cmd command
	switch name {
	case "serve":
		entrypoint.Run(cfg, Version)
		return
	case "shell":
		cmd = cli.NewShellCommand(cfg)
	case "sweep":
		cmd = cli.NewSweepCommand(cfg)
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The shell blocks on stdin, so Ctrl-C keeps its default of ending the process there.
	ctx := context.Background()
	if name != "shell" {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}
	if err := cmd.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  shell   Manage the catalog interactively (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  serve   Start the HTTP API server\n")
	fmt.Fprintf(os.Stderr, "  sweep   Delete orphan books and tags once\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
