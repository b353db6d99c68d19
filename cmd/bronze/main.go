package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/history"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"rotate": true, "log": true, "status": true,
	"history": true, "archives": true,
	"watch": true, "serve": true,
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
	// Global flags start a CLI invocation too
	if arg == "--dir" || arg == "-d" {
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
   ___
  | _ )_ _ ___ _ _  ______
  | _ \ '_/ _ \ ' \|_ / -_)
  |___/_| \___/_||_/__\___|

  Markdown system log rotation and inbox watcher

  Usage: bronze <command> [options]
         bronze --help

  MCP server mode requires piped input.`)
}

// globalBaseDir returns the per-user config directory (~/.bronze).
func globalBaseDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".bronze"), nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before touching the filesystem
	if isHelpOrVersion() {
		app := newCLIApp("")
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	baseDir, err := globalBaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(baseDir)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'bronze --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default). The workspace is the current directory
	// unless BRONZE_DIR overrides it.
	dir := os.Getenv("BRONZE_DIR")
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: could not determine working directory: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.LoadWithWorkspace(baseDir, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	for _, name := range mcp.ValidateDisabledTools(cfg.DisabledTools) {
		log.Printf("warning: unknown tool in disabled_tools: %s", name)
	}
	for _, name := range mcp.ValidateDisabledTypes(cfg.DisabledTypes) {
		log.Printf("warning: unknown type in disabled_types: %s", name)
	}

	database, err := history.Init(filepath.Join(dir, config.DotDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()
	history.ConfigurePool(database, cfg)

	if err := mcp.Run(database, cfg, dir, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
