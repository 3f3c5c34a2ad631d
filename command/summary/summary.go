package summary

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"co2-stats/connectors/config"
	ccsv "co2-stats/connectors/csv"
	"co2-stats/domain/emissions"
	"co2-stats/domain/format"
	"co2-stats/stats"
)

// Run executes the summary subcommand: print a formatted headline
// report for one year of the dataset.
//
// Usage:
//
//	co2-stats summary [-data <dir>] [-year <y>]
func Run(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", "", "data directory (default from config)")
	year := fs.Int("year", 0, "report year (default: latest year in the data)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Resolve()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	ds := ccsv.LoadDataset(cfg)
	if ds.Total.IsEmpty() {
		slog.Error("summary.validation.error", "reason", "total emissions table is empty")
		return fmt.Errorf("no emissions data under %s, run import first", cfg.DataDir)
	}

	y := *year
	if y == 0 {
		y = ds.Total.LatestYear()
	}
	base := cfg.DefaultStartYear

	total := stats.SumAtYear(ds.Total, emissions.ColTotal, y)
	change := stats.PercentChange(ds.Total, emissions.ColTotal, base, y)
	cagr := stats.CAGR(ds.Total, emissions.ColTotal, base, y)

	w := os.Stdout
	fmt.Fprintf(w, "Global CO2 emissions, %d\n", y)
	fmt.Fprintf(w, "  Total:            %s\n", format.WithUnits(total, "t CO2"))
	fmt.Fprintf(w, "  Change vs %d:   %s\n", base, format.Percent(change, 1, true))
	fmt.Fprintf(w, "  CAGR %s: %s\n", format.YearRange(base, y), format.Percent(cagr, 2, true))

	fmt.Fprintf(w, "\nTop %d emitters, %d\n", cfg.TopN, y)
	for _, c := range stats.TopContributors(ds.Total, emissions.ColTotal, y, cfg.TopN, nil) {
		fmt.Fprintf(w, "  %-20s %12s  %s\n",
			format.CountryName(c.ISO3),
			format.Number(c.Value, 1, "Mt"),
			format.Percent(c.Percentage, 1, false))
	}

	fmt.Fprintf(w, "\nEmissions by source, %d\n", y)
	for _, s := range stats.AggregateBySource(ds.Total, y, "") {
		fmt.Fprintf(w, "  %-10s %12s\n", s.Source, format.Number(s.Value, 1, "Mt"))
	}

	slog.Info("summary.done", "year", y)
	return nil
}
