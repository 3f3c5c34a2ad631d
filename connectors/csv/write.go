package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"co2-stats/domain/emissions"
	"co2-stats/stats"
)

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteYearly writes a by-year aggregation.
// Headers: year, value
func WriteYearly(path string, rows []stats.YearValue) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"year", "value"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{strconv.Itoa(r.Year), fmtFloat(r.Value)}); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteRegionTotals writes a by-region aggregation.
// Headers: region, value
func WriteRegionTotals(path string, rows []stats.RegionValue) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"region", "value"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Region, fmtFloat(r.Value)}); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteSourceTotals writes a by-source aggregation. The year column is
// empty for rows summed across all years.
// Headers: source, year, value
func WriteSourceTotals(path string, rows []stats.SourceValue) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"source", "year", "value"}); err != nil {
		return err
	}
	for _, r := range rows {
		year := ""
		if r.Year != 0 {
			year = strconv.Itoa(r.Year)
		}
		if err := w.Write([]string{r.Source, year, fmtFloat(r.Value)}); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteSourceShares writes the per-year source percentage breakdown.
// Headers: year, source, emissions, percent
func WriteSourceShares(path string, rows []stats.SourceShare) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"year", "source", "emissions", "percent"}); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{strconv.Itoa(r.Year), r.Source, fmtFloat(r.Emissions), fmtFloat(r.Percent)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteTopEmitters writes a ranked table of records for one column.
// Headers: rank, country, iso3, year, value
func WriteTopEmitters(path, column string, rows []emissions.Record) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"rank", "country", "iso3", "year", column}); err != nil {
		return err
	}
	for i, r := range rows {
		value := ""
		if v, ok := r.Value(column); ok {
			value = fmtFloat(v)
		}
		row := []string{strconv.Itoa(i + 1), r.Country, r.ISO3, strconv.Itoa(r.Year), value}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteGrowthRates writes multi-period growth per country. Missing
// rates stay empty cells; a blank is not a zero.
// Headers: country, iso3, <P>yr_growth per period
func WriteGrowthRates(path string, periods []int, rows []stats.GrowthRate) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	headers := []string{"country", "iso3"}
	for _, p := range periods {
		headers = append(headers, fmt.Sprintf("%dyr_growth", p))
	}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{r.Country, r.ISO3}
		for _, p := range periods {
			cell := ""
			if rate := r.Rates[p]; rate != nil {
				cell = fmtFloat(*rate)
			}
			row = append(row, cell)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
