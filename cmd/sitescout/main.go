package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/sitescout/internal/agent"
	"github.com/hpungsan/sitescout/internal/config"
	"github.com/hpungsan/sitescout/internal/mcp"
	"github.com/hpungsan/sitescout/internal/ops"
	"github.com/hpungsan/sitescout/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"analyze": true, "ask": true, "refresh": true, "status": true,
	"cancel": true, "sites": true, "show": true, "delete": true,
	"clear-history": true, "purge": true,
	"set-key": true, "get-key": true, "set-role": true, "get-role": true,
	"web": true, "help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ _ _         ___                _
  / __(_) |_ ___  / __| __ ___ _  _| |_
  \__ \ |  _/ -_) \__ \/ _/ _ \ || |  _|
  |___/_|\__\___| |___/\__\___/\_,_|\__|

  Ask questions about any web page

  Usage: sitescout <command> [options]
         sitescout --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".sitescout")

	db, err := store.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	store.ConfigurePool(db, cfg)

	apiKey, err := store.GetAPIKey(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to read credential: %v\n", err)
		os.Exit(1)
	}

	svc := agent.NewClient(cfg.BaseURL, apiKey, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)
	orch := ops.New(db, svc, cfg)

	// A run that died mid-analysis leaves records stuck in connecting or
	// analyzing; reset them before anything can start.
	if n, err := orch.ResumeInterrupted(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to reset interrupted analyses: %v\n", err)
		os.Exit(1)
	} else if n > 0 {
		log.Printf("reset %d interrupted analyses to idle", n)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(orch, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'sitescout --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(orch, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
