package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/alphableed/internal/batch"
	"github.com/ironsheep/alphableed/internal/bleed"
	"github.com/ironsheep/alphableed/internal/imaging"
	"github.com/ironsheep/alphableed/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type command int

const (
	cmdRepair command = iota
	cmdRestore
	cmdServe
	cmdVersion
	cmdHelp
)

// config is the parsed command line layered over the environment.
type config struct {
	command  command
	opts     batch.Options
	pause    bool
	logLevel slog.Level
	paths    []string
}

// parseArgs reads ALPHABLEED_* defaults from getenv, then applies flags.
// Anything that is not a flag is an input path; "--" ends flag parsing.
func parseArgs(args []string, getenv func(string) string) (*config, error) {
	cfg := &config{
		command:  cmdRepair,
		opts:     batch.Options{Strategy: bleed.Nearest},
		logLevel: slog.LevelWarn,
	}

	if v := getenv("ALPHABLEED_STRATEGY"); v != "" {
		strategy, err := bleed.ParseStrategy(v)
		if err != nil {
			return nil, fmt.Errorf("ALPHABLEED_STRATEGY: %w", err)
		}
		cfg.opts.Strategy = strategy
	}
	if v := getenv("ALPHABLEED_WORKERS"); v != "" {
		n, err := parseWorkers(v)
		if err != nil {
			return nil, fmt.Errorf("ALPHABLEED_WORKERS: %w", err)
		}
		cfg.opts.Workers = n
	}
	if v := getenv("ALPHABLEED_LOG_LEVEL"); v != "" {
		if err := cfg.logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("ALPHABLEED_LOG_LEVEL: %w", err)
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			cfg.paths = append(cfg.paths, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			cfg.paths = append(cfg.paths, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		// takeValue returns the flag value from "--name=value" or the next argument.
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}

		switch name {
		case "--version", "-v":
			cfg.command = cmdVersion
			return cfg, nil
		case "--help", "-h":
			cfg.command = cmdHelp
			return cfg, nil
		case "--debug", "-d":
			cfg.opts.Debug = true
		case "--backup":
			cfg.opts.Backup = true
		case "--dry-run":
			cfg.opts.DryRun = true
		case "--pause":
			cfg.pause = true
		case "--restore":
			cfg.command = cmdRestore
		case "--serve":
			cfg.command = cmdServe
		case "--strategy":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			strategy, err := bleed.ParseStrategy(v)
			if err != nil {
				return nil, err
			}
			cfg.opts.Strategy = strategy
		case "--workers":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			n, err := parseWorkers(v)
			if err != nil {
				return nil, fmt.Errorf("--workers: %w", err)
			}
			cfg.opts.Workers = n
		default:
			return nil, fmt.Errorf("unknown option %s", arg)
		}
	}

	if cfg.command == cmdRestore && len(cfg.paths) == 0 {
		return nil, errors.New("--restore needs at least one file")
	}
	return cfg, nil
}

func parseWorkers(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid worker count %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("worker count must not be negative, got %d", n)
	}
	return n, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, os.Getenv)
	if err != nil {
		fmt.Fprintf(stderr, "alphableed: %v\n", err)
		fmt.Fprintln(stderr, "Run 'alphableed --help' for usage.")
		return 2
	}

	switch cfg.command {
	case cmdVersion:
		printVersion(stdout)
		return 0
	case cmdHelp:
		printUsage(stdout)
		return 0
	}

	// Logging goes to stderr; stdout carries results (or MCP protocol with --serve)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.logLevel}))
	slog.SetDefault(logger)
	batch.SetLogger(logger)

	var code int
	switch cfg.command {
	case cmdServe:
		logger.Info("starting MCP server", "version", Version, "built", BuildTime, "commit", GitCommit)
		srv := server.New(Version, cfg.opts)
		if err := srv.Serve(stdin, stdout); err != nil {
			logger.Error("server error", "error", err)
			return 1
		}
		return 0
	case cmdRestore:
		code = restore(cfg.paths, stdout)
	default:
		code = repair(cfg, stdout, stderr)
	}

	if cfg.pause {
		fmt.Fprintln(stdout, "\nPress enter to exit")
		_, _ = bufio.NewReader(stdin).ReadString('\n')
	}
	return code
}

// repair runs a batch over cfg.paths and prints the summary.
// Returns 1 if any input was skipped.
func repair(cfg *config, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "alphableed %s (%s strategy)\n\n", Version, cfg.opts.Strategy)

	if len(cfg.paths) == 0 {
		fmt.Fprintln(stdout, "Pass PNG or TIFF files or directories to fix them!")
		return 0
	}
	fmt.Fprintln(stdout, "Processing your files, please wait!")

	res := batch.Resolve(cfg.paths)
	for _, rej := range res.Rejected {
		fmt.Fprintf(stdout, "Ignoring %q - %s\n", rej.Path, rej.Reason)
	}

	summary, err := batch.Run(res.Files, cfg.opts)
	if err != nil {
		fmt.Fprintf(stderr, "alphableed: %v\n", err)
		return 2
	}

	for _, o := range summary.Failures() {
		fmt.Fprintf(stdout, "Couldn't fix %v\n", o.Err)
	}

	fmt.Fprintln(stdout)
	if summary.Fixed > 0 {
		verb := "fixed"
		if cfg.opts.DryRun {
			verb = "checked (dry run, nothing written)"
		}
		fmt.Fprintf(stdout, "Successfully %s %d images in %.4f seconds!\n", verb, summary.Fixed, summary.Elapsed.Seconds())
	} else {
		fmt.Fprintln(stdout, "No files were able to be fixed!")
	}

	skipped := summary.Failed + res.Unsupported()
	if skipped > 0 {
		fmt.Fprintf(stdout, "Skipped %d files that couldn't be fixed!\n", skipped)
		return 1
	}
	return 0
}

// restore puts back the backups of the given files.
func restore(paths []string, stdout io.Writer) int {
	res := batch.Resolve(paths)
	for _, rej := range res.Rejected {
		if strings.HasSuffix(rej.Path, imaging.BackupSuffix) {
			continue
		}
		fmt.Fprintf(stdout, "Ignoring %q - %s\n", rej.Path, rej.Reason)
	}

	failed := 0
	for _, path := range res.Files {
		if err := imaging.RestoreBackup(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(stdout, "No backup for %q\n", path)
			} else {
				fmt.Fprintf(stdout, "Couldn't restore %q: %v\n", path, err)
			}
			failed++
			continue
		}
		fmt.Fprintf(stdout, "Restored %q\n", path)
	}

	if failed > 0 {
		return 1
	}
	return 0
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "alphableed %s\n", Version)
	fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "alphableed - fill the colors of transparent pixels to stop dark fringes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: alphableed [options] <file or directory>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --strategy=NAME  Fill strategy: nearest (default) or flood")
	fmt.Fprintln(w, "  --debug, -d      Make filled pixels opaque to inspect the result")
	fmt.Fprintln(w, "  --workers=N      Files processed at once (default: number of CPUs)")
	fmt.Fprintln(w, "  --backup         Keep a compressed copy of each original (.orig.zst)")
	fmt.Fprintln(w, "  --dry-run        Run the repair without writing any file")
	fmt.Fprintln(w, "  --restore        Restore the given files from their backups")
	fmt.Fprintln(w, "  --pause          Wait for Enter before exiting")
	fmt.Fprintln(w, "  --serve          Run as an MCP server over stdin/stdout")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  ALPHABLEED_STRATEGY=flood     Default fill strategy")
	fmt.Fprintln(w, "  ALPHABLEED_WORKERS=4          Default worker count")
	fmt.Fprintln(w, "  ALPHABLEED_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Directories are expanded one level deep. Only PNG and TIFF files are accepted.")
}
