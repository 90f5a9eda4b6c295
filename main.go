package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/retro49/plas/api"
	"github.com/retro49/plas/config"
	"github.com/retro49/plas/debugger"
	"github.com/retro49/plas/diag"
	"github.com/retro49/plas/runner"
	"github.com/retro49/plas/tools"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use the TUI debugger")
		apiServer   = flag.Bool("api-server", false, "Start the HTTP API server")
		apiPort     = flag.Int("port", 0, "API server port (0 uses the configured default, used with -api-server)")
		watchParent = flag.Bool("watch-parent", false, "Exit the API server when its launching process dies (used with -api-server)")
		maxSteps    = flag.Int("max-steps", 0, "Maximum instructions before a step-budget exit (0 uses the configured default)")
		noColor     = flag.Bool("no-color", false, "Disable colored diagnostics")
		dumpTokens  = flag.Bool("dump-tokens", false, "Write a <file>.tkn token dump alongside the source")
		dumpProgram = flag.Bool("dump-program", false, "Write a <file>.lst linked-program listing alongside the source")
		dataStrict  = flag.Bool("data-strict", false, "Treat the data instruction as a fatal syntax error instead of a warning")
		lintOnly    = flag.Bool("lint", false, "Check the program for unused labels and unreachable code, then exit")
		configPath  = flag.String("config", "", "Path to a config.toml (default: the platform config directory)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("plas %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		runAPIServer(cfg, *apiPort, *watchParent)
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stdout, "unable to start process without a file")
		os.Exit(1)
	}

	path := flag.Arg(0)

	colorEnabled := cfg.Display.ColorOutput && !*noColor
	logger := diag.NewLogger(os.Stdout, colorEnabled)

	effectiveMaxSteps := cfg.Execution.MaxSteps
	if *maxSteps != 0 {
		effectiveMaxSteps = *maxSteps
	}
	effectiveDataStrict := cfg.Execution.DataStrict || *dataStrict

	opts := runner.Options{
		DataStrict:  effectiveDataStrict,
		MaxSteps:    effectiveMaxSteps,
		DumpTokens:  *dumpTokens,
		DumpProgram: *dumpProgram,
		Out:         os.Stdout,
		Logger:      logger,
	}

	if *lintOnly {
		os.Exit(runLint(path, opts))
	}

	if *debugMode || *tuiMode || cfg.Debugger.UseTUI && !*debugMode {
		os.Exit(runDebugger(path, opts, *tuiMode || cfg.Debugger.UseTUI && !*debugMode))
	}

	os.Exit(runner.Run(path, opts))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func runLint(path string, opts runner.Options) int {
	program, exitCode, err := runner.Compile(path, opts)
	if err != nil {
		opts.Logger.Error("error", err.Error())
		return 1
	}
	if program == nil {
		return exitCode
	}

	issues := tools.Check(program)
	if len(issues) == 0 {
		fmt.Println("no issues found")
		return 0
	}

	hasError := false
	for _, issue := range issues {
		fmt.Println(issue.String())
		if issue.Level == tools.LevelError {
			hasError = true
		}
	}
	if hasError {
		return 1
	}
	return 0
}

func runDebugger(path string, opts runner.Options, tui bool) int {
	program, exitCode, err := runner.Compile(path, opts)
	if err != nil {
		opts.Logger.Error("error", err.Error())
		return 1
	}
	if program == nil {
		return exitCode
	}

	dbg := debugger.New(program, opts.Out)
	dbg.VM.MaxSteps = opts.MaxSteps
	dbg.VM.OnWarning = func(message string, originLine int) {
		opts.Logger.RuntimeWarning(message, originLine)
	}

	if tui {
		return debugger.RunTUI(dbg)
	}

	fmt.Println("plas debugger - type 'help' for commands")
	fmt.Printf("program loaded: %s\n", path)
	fmt.Println()

	return debugger.RunCLI(dbg, bufio.NewReader(os.Stdin), os.Stdout)
}

func runAPIServer(cfg *config.Config, port int, watchParent bool) {
	if port == 0 {
		port = cfg.API.Port
	}
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nshutting down API server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "error during shutdown: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(watchParent); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Printf(`plas %s - a PLAS interpreter

Usage: plas [options] <source-file>
       plas -api-server [-port N]

Options:
  -help              Show this help message
  -version           Show version information
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -api-server        Start the HTTP API server (no source file required)
  -port N            API server port (used with -api-server)
  -watch-parent      Exit the API server when its launching process dies
  -max-steps N       Maximum instructions before a step-budget exit (0 = use the configured default)
  -no-color          Disable colored diagnostics
  -dump-tokens       Write a <file>.tkn token dump alongside the source
  -dump-program      Write a <file>.lst linked-program listing alongside the source
  -data-strict       Treat the data instruction as a fatal syntax error
  -lint              Check for unused labels and unreachable code, then exit
  -config PATH       Path to a config.toml (default: the platform config directory)

Examples:
  plas program.plas
  plas -debug program.plas
  plas -tui program.plas
  plas -lint program.plas
  plas -api-server -port 4077

Debugger Commands (when in -debug mode):
  run, r             Start execution from address 0
  continue, c        Resume after a breakpoint
  step, s            Execute a single instruction
  break, b ADDR      Set a breakpoint at an address or label
  info registers     Show all registers
  print $reg         Show a register's value
  help               Show debugger help
`, Version)
}
