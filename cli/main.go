package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"viewtrack/config"
	"viewtrack/internal/retry"
	"viewtrack/storage"
	"viewtrack/tracker"
	"viewtrack/youtube"
)

// Exit codes: 2 for configuration errors, 1 for everything else fatal.
const (
	exitErr    = 1
	exitConfig = 2
)

func main() {
	if len(os.Args) < 2 {
		cmdRun(nil)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		cmdRun(args)
	case "export":
		cmdExport(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(exitConfig)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `viewtrack - YouTube view-count history tracker

Usage:
  viewtrack run                      Run one tracking cycle
  viewtrack export [flags] [path]    Export snapshot history as CSV
  viewtrack help                     Show this help message

Configuration is read from viewtrack.json and VIEWTRACK_* environment
variables (a .env file in the working directory is honored). The API key
must be set via VIEWTRACK_API_KEY.

Examples:
  viewtrack run
  viewtrack export                          # CSV of the configured snapshot to stdout
  viewtrack export -o history.csv
  viewtrack export data/videos.json         # export a specific snapshot file
`)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: viewtrack run\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	// .env is optional; real env vars take precedence over it.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(exitConfig)
	}

	ctx := context.Background()

	client, err := youtube.NewClient(ctx, cfg.APIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating API client: %v\n", err)
		os.Exit(exitConfig)
	}
	client.RetryConfig = &retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     cfg.BackoffMultiplier,
		JitterFraction: 0.2,
	}

	store := storage.NewJSONStore(cfg.SnapshotPath, cfg.MarkerPath)

	result, err := tracker.New(cfg, store, client).Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, tracker.ErrWatchlist) {
			os.Exit(exitConfig)
		}
		os.Exit(exitErr)
	}

	fmt.Printf("Tracked %d videos (%d fetched, %d degraded)\n",
		result.Tracked, result.Fetched, result.Degraded)
	if result.Reset {
		fmt.Println("One-time history reset performed.")
	}
	fmt.Printf("Snapshot written to %s\n", cfg.SnapshotPath)
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "", "Write CSV to this file instead of stdout")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: viewtrack export [flags] [snapshot-path]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	_ = godotenv.Load()

	snapshotPath := ""
	if argv := fs.Args(); len(argv) > 0 {
		snapshotPath = argv[0]
	} else {
		// Fall back to the configured snapshot location. Export does not
		// need the API key, so skip full validation.
		cfg, err := config.Load()
		if err == nil {
			snapshotPath = cfg.SnapshotPath
		} else {
			snapshotPath = config.DefaultConfig().SnapshotPath
		}
	}

	store := storage.NewJSONStore(snapshotPath, "")
	snap, err := store.Load(context.Background())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error: no snapshot at %s (run `viewtrack run` first)\n", snapshotPath)
		} else {
			fmt.Fprintf(os.Stderr, "Error reading snapshot: %v\n", err)
		}
		os.Exit(exitErr)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(exitErr)
		}
		defer f.Close()
		out = f
	}

	if err := tracker.ExportCSV(out, snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting history: %v\n", err)
		os.Exit(exitErr)
	}
}
