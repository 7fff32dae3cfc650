package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vex/internal/host"
	"vex/internal/interp"
	"vex/internal/repl"
	"vex/internal/util"
	"vex/internal/value"
)

var (
	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// interpreter config
	configFile string
	workDir    string
	trace      bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configFile, "config", "", "Path to a TOML configuration file")
	flag.StringVar(&workDir, "workdir", ".", "Working directory for relative file paths in scripts")
	flag.BoolVar(&trace, "trace", false, "Print the execution trace after each evaluation")
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	config := util.Configuration{
		Version:  interp.Version,
		WorkDir:  workDir,
		LogLevel: logLevel,
		LogFile:  logFile,
		Trace:    trace,
	}
	if configFile != "" {
		loaded, err := util.LoadConfiguration(configFile, config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read config '%s': %v\n", configFile, err)
			os.Exit(1)
		}
		config = loaded
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logger := slog.New(slog.NewJSONHandler(configureLogWriter(config.LogFile), loggerOptions))
	slog.SetDefault(logger)

	if version {
		fmt.Printf("vex version 'v%s'\n", config.Version)
		return
	}
	if help {
		printHelp()
		return
	}

	registry := interp.NewRegistry()
	if err := host.Register(registry); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register host elements: %v\n", err)
		os.Exit(1)
	}
	interpreter := interp.New(registry, value.NewSymbolTable())
	interpreter.SetLogger(logger)
	interpreter.SetWorkDir(config.WorkDir)
	interpreter.SetTrace(config.Trace)

	if flag.Arg(0) == "" {
		fmt.Printf("vex v%s\n", config.Version)
		repl.Start(os.Stdin, os.Stdout, interpreter)
		return
	}

	if err := runFile(interpreter, flag.Arg(0)); err != nil {
		os.Exit(1)
	}
}

func runFile(interpreter *interp.Interpreter, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read '%s': %v\n", path, err)
		return err
	}
	src := string(data)

	v, err := interpreter.EvaluateScript(src)
	if err != nil {
		if se, ok := err.(*value.ScriptError); ok {
			line, col := util.GetLineAndColumn(src, se.Pos)
			fmt.Fprintf(os.Stderr, "%s: error (line %d, col %d): %s\n", path, line, col, se.Msg)
			fmt.Fprint(os.Stderr, util.FormatErrorContext(src, se.Pos))
		} else {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", path, err)
		}
		return err
	}
	if t := interpreter.Trace(); t != "" {
		fmt.Fprint(os.Stderr, t)
	}
	if !value.IsInvisible(v) {
		fmt.Println(v)
	}
	return nil
}

func logLevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func configureLogWriter(logFile string) *os.File {
	if logFile == "" {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	w, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	return w
}

func printHelp() {
	fmt.Printf(`Usage: vex [options] [filename]

Options:
  -config <path>     Path to a TOML configuration file.
  -workdir <path>    Working directory for relative file paths in scripts. Default is '.'
  -trace             Print the execution trace after each evaluation.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Examples:
  vex                           Start the interactive console
  vex -trace model.vex          Execute a script with the execution trace
  vex -log-level=debug          Start with debug logging enabled
`)
}
