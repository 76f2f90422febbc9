package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hideseek/quarry/internal/config"
	"github.com/hideseek/quarry/internal/mcp"
	"github.com/hideseek/quarry/internal/notify"
	"github.com/hideseek/quarry/internal/overpass"
	"github.com/hideseek/quarry/internal/resolve"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"resolve": true, "answer": true, "apply": true,
	"preview": true, "cache": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
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
   ___  _   _  __ _ _ __ _ __ _   _
  / _ \| | | |/ _' | '__| '__| | | |
 | (_| | |_| | (_| | |  | |  | |_| |
  \__, |\__,_|\__,_|_|  |_|   \__, |
     |_|                      |___/

  Geospatial question resolution engine

  Usage: quarry <command> [options]
         quarry --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before provider init (no network or DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
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

	baseDir := filepath.Join(homeDir, ".quarry")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown disabled tools: %v\n", unknown)
	}

	cacheDB, err := overpass.InitCacheDB(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize response cache: %v\n", err)
		os.Exit(1)
	}
	defer cacheDB.Close()
	overpass.ConfigurePool(cacheDB, cfg)

	deps := &resolve.Deps{
		Provider: overpass.New(cfg, cacheDB),
		Notifier: notify.NewSlog(nil),
		Config:   cfg,
		Cache:    resolve.NewCache(),
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'quarry --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(deps, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
