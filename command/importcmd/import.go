package importcmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"co2-stats/connectors/config"
	"co2-stats/connectors/gcb"
)

// Run executes the import subcommand: download the dataset release
// files into the data directory.
//
// Usage:
//
//	co2-stats import [-base-url <url>] [-data <dir>]
func Run(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	baseURL := fs.String("base-url", gcb.DefaultBaseURL, "base URL of the dataset release files")
	dataDir := fs.String("data", "", "destination directory (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Resolve()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	names := []string{
		cfg.Files.TotalEmissions,
		cfg.Files.PerCapita,
		cfg.Files.Sources,
		cfg.Files.TotalMetadata,
		cfg.Files.PerCapitaMetadata,
	}

	slog.Info("import.start", "baseURL", *baseURL, "dataDir", cfg.DataDir, "files", len(names))
	client := gcb.New(nil, *baseURL)
	if err := client.FetchAll(context.Background(), names, cfg.DataDir); err != nil {
		slog.Error("import.fetch.error", "error", err)
		return err
	}

	fmt.Fprintf(os.Stderr, "import.done files=%d dir=%s\n", len(names), cfg.DataDir)
	return nil
}
