package calculate

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"co2-stats/connectors/config"
	ccsv "co2-stats/connectors/csv"
	"co2-stats/domain/emissions"
	"co2-stats/stats"
)

// GrowthPeriods are the lookback horizons of the growth-rate table.
var GrowthPeriods = []int{5, 10, 20}

// Run executes the calculate subcommand: load the dataset and write
// every derived table the dashboard consumes back into the data
// directory as CSV files.
//
// Usage:
//
//	co2-stats calculate [-data <dir>]
//
// Outputs (under the data directory):
//
//	global_yearly.csv       total emissions summed per year
//	per_capita_yearly.csv   per-capita emissions summed per year
//	region_totals.csv       latest-year totals per configured region
//	source_totals.csv       latest-year emissions per source
//	source_percentages.csv  per-year source shares of the cross-source total
//	top_emitters.csv        latest-year top-N countries by total
//	growth_rates.csv        5/10/20-year growth per country
func Run(args []string) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", "", "data directory (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Resolve()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	ds := ccsv.LoadDataset(cfg)
	if ds.Total.IsEmpty() {
		slog.Error("calculate.validation.error", "reason", "total emissions table is empty")
		return fmt.Errorf("no emissions data under %s, run import first", cfg.DataDir)
	}

	idx := emissions.NewRegionIndex(cfg.Regions)
	latest := ds.Total.LatestYear()
	out := func(name string) string { return filepath.Join(cfg.DataDir, name) }

	if err := ccsv.WriteYearly(out("global_yearly.csv"), stats.AggregateByYear(ds.Total, emissions.ColTotal)); err != nil {
		return err
	}
	if err := ccsv.WriteYearly(out("per_capita_yearly.csv"), stats.AggregateByYear(ds.PerCapita, emissions.ColTotal)); err != nil {
		return err
	}
	if err := ccsv.WriteRegionTotals(out("region_totals.csv"), stats.AggregateByRegion(ds.Total, idx, emissions.ColTotal, latest)); err != nil {
		return err
	}
	if err := ccsv.WriteSourceTotals(out("source_totals.csv"), stats.AggregateBySource(ds.Total, latest, "")); err != nil {
		return err
	}
	if err := ccsv.WriteSourceShares(out("source_percentages.csv"), stats.PerSourcePercentages(ds.Total, 0)); err != nil {
		return err
	}
	top := stats.TopEmitters(ds.Total, emissions.ColTotal, latest, cfg.TopN)
	if err := ccsv.WriteTopEmitters(out("top_emitters.csv"), emissions.ColTotal, top); err != nil {
		return err
	}
	growth := stats.GrowthRates(ds.Total, emissions.ColTotal, GrowthPeriods)
	if err := ccsv.WriteGrowthRates(out("growth_rates.csv"), GrowthPeriods, growth); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "calculate.done latestYear=%d countries=%d\n", latest, len(growth))
	return nil
}
