package main

import (
	"fmt"
	"log/slog"
	"os"

	cmdcalculate "co2-stats/command/calculate"
	cmdimport "co2-stats/command/importcmd"
	cmdsummary "co2-stats/command/summary"
	cmdweb "co2-stats/command/web"
)

// CO2 emissions statistics service over the Global Carbon Budget flat files.
// Usage:
//   co2-stats import [-base-url <url>] [-data <dir>]   download the dataset
//   co2-stats calculate [-data <dir>]                  write derived CSV tables
//   co2-stats summary [-data <dir>] [-year <y>]        print a headline report
//   co2-stats web [-addr :8080] [-data <dir>]          serve the JSON API + UI
// Notes:
// - ENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml);
//   defaults cover the data paths, year range, top-N, region grouping and palette.

func main() {
	args := os.Args
	// Initialize slog logger (text to stderr)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		switch sub {
		case "import":
			if err := cmdimport.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "calculate":
			if err := cmdcalculate.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "summary":
			if err := cmdsummary.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "web":
			if err := cmdweb.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: co2-stats import [-base-url <url>] [-data <dir>] | calculate [-data <dir>] | summary [-year <y>] | web [-addr :8080] [-data ./data]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)")
	os.Exit(2)
}
