// Package main is the entry point for cityscan. It parses city snapshot
// exports, writes census and kit producer reports, and optionally runs a
// watch loop or the dashboard TUI.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veskel/cityscan/internal/app"
	"github.com/veskel/cityscan/internal/config"
	"github.com/veskel/cityscan/internal/logger"
	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/report"
	"github.com/veskel/cityscan/internal/services"
	"github.com/veskel/cityscan/internal/ui/tabs/info"
	"github.com/veskel/cityscan/internal/ui/tabs/kits"
	"github.com/veskel/cityscan/internal/ui/tabs/overview"
	"github.com/veskel/cityscan/internal/ui/tabs/trends"
	"github.com/veskel/cityscan/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage()
		if len(os.Args) < 2 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "report":
		err = runReport(args)
	case "kits":
		err = runKits(args)
	case "watch":
		err = runWatch(args)
	case "dashboard":
		err = runDashboard(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags holds the flags shared by all subcommands.
type commonFlags struct {
	era     string
	input   string
	out     string
	verbose bool
}

func parseFlags(name string, args []string) (*commonFlags, *config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	flags := &commonFlags{}
	fs.StringVar(&flags.era, "era", "", "era to inspect (default from config)")
	fs.StringVar(&flags.input, "input", "", "snapshot input directory (default from config)")
	fs.StringVar(&flags.out, "out", "", "report output directory (default from config)")
	fs.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	logger.SetVerbose(flags.verbose)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if flags.input != "" {
		cfg.InputDir = flags.input
	}
	if flags.out != "" {
		cfg.OutputDir = flags.out
	}
	if flags.era == "" {
		flags.era = cfg.DefaultEra
	}

	return flags, cfg, nil
}

// runReport processes the newest snapshot and prints the census summary.
func runReport(args []string) error {
	flags, cfg, err := parseFlags("report", args)
	if err != nil {
		return err
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return err
	}
	defer closeManager(mgr)

	analysis, err := mgr.Process(flags.era)
	if err != nil {
		return err
	}

	fmt.Print(report.RenderCensus(analysis.Census))
	fmt.Println()
	for _, path := range analysis.OutputFiles {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

// runKits processes the newest snapshot and prints the kit producer reports.
func runKits(args []string) error {
	flags, cfg, err := parseFlags("kits", args)
	if err != nil {
		return err
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return err
	}
	defer closeManager(mgr)

	analysis, err := mgr.Process(flags.era)
	if err != nil {
		return err
	}

	for _, kit := range models.KitTypes() {
		fmt.Print(report.RenderKitReport(analysis.SourceFile, flags.era, kit, analysis.Kits[kit]))
		fmt.Println()
	}
	for _, path := range analysis.OutputFiles {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

// runWatch processes every settled snapshot write until interrupted.
func runWatch(args []string) error {
	flags, cfg, err := parseFlags("watch", args)
	if err != nil {
		return err
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return err
	}
	defer closeManager(mgr)

	if err := mgr.StartWatching(flags.era); err != nil {
		return err
	}

	fmt.Printf("Watching %s for city snapshots (era: %s). Press Ctrl+C to stop.\n",
		cfg.InputDir, flags.era)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	return nil
}

// runDashboard starts the Bubble Tea TUI.
func runDashboard(args []string) error {
	flags, cfg, err := parseFlags("dashboard", args)
	if err != nil {
		return err
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return err
	}
	defer closeManager(mgr)

	if err := mgr.StartWatching(flags.era); err != nil {
		return err
	}

	model := app.NewModel(mgr, flags.era)

	state := model.GetState()
	commands := model.GetCommands()
	model.SetTabs([]app.Tab{
		overview.New(state, mgr, commands),
		kits.New(state, mgr, commands),
		trends.New(state, mgr, commands),
		info.New(state, mgr, commands),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func closeManager(mgr *services.Manager) {
	if err := mgr.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", err)
	}
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`cityscan - city snapshot census and kit producer reports

Usage:
  cityscan <command> [flags]

Commands:
  report      Analyze the newest snapshot and print the census summary
  kits        Analyze the newest snapshot and print the kit producer reports
  watch       Re-run the analysis whenever a new snapshot lands
  dashboard   Interactive TUI with overview, kits, trends and info tabs

Flags:
  --era <name>     Era to inspect (default: CITYSCAN_DEFAULT_ERA or VirtualFuture)
  --input <dir>    Snapshot input directory
  --out <dir>      Report output directory
  --verbose        Enable debug logging
  -h, --help       Show this help message
  -v, --version    Show version information

Keyboard Shortcuts (dashboard):
  1-4             Switch between tabs (Overview, Kits, Trends, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  h/l, Left/Right Switch kit type
  r               Rescan input directory
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  CITYSCAN_INPUT_DIR    Snapshot input directory
  CITYSCAN_OUTPUT_DIR   Report output directory
  CITYSCAN_DEFAULT_ERA  Era inspected when --era is not given
  DATABASE_PATH         SQLite run history database path
  WATCH_DEBOUNCE        Watch debounce window (default: 500ms)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/cityscan/.env
  - ~/.cityscan/.env`)
}
