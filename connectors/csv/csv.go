package csv

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	cfg "co2-stats/domain/config"
	"co2-stats/domain/emissions"
)

// RequiredColumns is the column contract shared by the total and
// per-capita files. The sources file omits Total.
var RequiredColumns = []string{emissions.ColCountry, emissions.ColISO3, emissions.ColYear, emissions.ColTotal}

// RequiredSourceColumns is the contract for the per-source file.
var RequiredSourceColumns = []string{emissions.ColCountry, emissions.ColISO3, emissions.ColYear}

// Load reads a flat emissions CSV into a table. A missing file or a
// missing required column yields an empty table and a descriptive
// error; the caller reports it and carries on. The Year column is
// coerced to integer (rows with an unparsable year are skipped); other
// cells that fail numeric parsing are treated as absent, not zero.
func Load(path string, required []string) (*emissions.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return emissions.Empty(), fmt.Errorf("data file not found at %s", path)
		}
		return emissions.Empty(), fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	head, err := r.Read()
	if err != nil {
		return emissions.Empty(), fmt.Errorf("read header of %s: %w", path, err)
	}
	for i, h := range head {
		head[i] = strings.TrimSpace(h)
	}
	idx := indexMap(head)
	for _, col := range required {
		if _, ok := idx[key(col)]; !ok {
			return emissions.Empty(), fmt.Errorf("required column %q not found in %s", col, path)
		}
	}

	countryIdx := idx[key(emissions.ColCountry)]
	isoIdx := idx[key(emissions.ColISO3)]
	yearIdx := idx[key(emissions.ColYear)]

	var rows []emissions.Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				continue
			}
			return emissions.Empty(), fmt.Errorf("parse %s: %w", path, err)
		}
		year, err := strconv.Atoi(strings.TrimSpace(rec[yearIdx]))
		if err != nil {
			// Coercion failure: drop the row rather than fault.
			continue
		}
		row := emissions.Record{
			Country: rec[countryIdx],
			ISO3:    rec[isoIdx],
			Year:    year,
			Values:  make(map[string]float64),
		}
		for i, h := range head {
			if i == countryIdx || i == isoIdx || i == yearIdx || i >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				row.Values[h] = v
			}
		}
		rows = append(rows, row)
	}
	return emissions.NewTable(rows, head), nil
}

// LoadMetadata reads a JSON metadata file into a key-value map. Same
// failure contract as Load but callers treat it as a warning.
func LoadMetadata(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, fmt.Errorf("metadata file not found at %s", path)
		}
		return map[string]any{}, fmt.Errorf("read metadata %s: %w", path, err)
	}
	meta := map[string]any{}
	if err := json.Unmarshal(b, &meta); err != nil {
		return map[string]any{}, fmt.Errorf("parse metadata %s: %w", path, err)
	}
	return meta, nil
}

// LoadDataset loads the three tables and both metadata files, applying
// the downgrade policy: load failures become log lines plus empty
// results, never faults.
func LoadDataset(c *cfg.Config) *emissions.Dataset {
	ds := &emissions.Dataset{}

	var err error
	if ds.Total, err = Load(c.TotalEmissionsPath(), RequiredColumns); err != nil {
		slog.Error("load.emissions.error", "error", err)
	}
	if ds.PerCapita, err = Load(c.PerCapitaPath(), RequiredColumns); err != nil {
		slog.Error("load.percapita.error", "error", err)
	}
	if ds.Sources, err = Load(c.SourcesPath(), RequiredSourceColumns); err != nil {
		slog.Error("load.sources.error", "error", err)
	}
	if ds.TotalMetadata, err = LoadMetadata(c.TotalMetadataPath()); err != nil {
		slog.Warn("load.metadata.warn", "error", err)
	}
	if ds.PerCapitaMetadata, err = LoadMetadata(c.PerCapitaMetadataPath()); err != nil {
		slog.Warn("load.metadata.warn", "error", err)
	}
	return ds
}

func indexMap(headers []string) map[string]int {
	m := map[string]int{}
	for i, h := range headers {
		m[key(h)] = i
	}
	return m
}

func key(h string) string { return strings.TrimSpace(strings.ToLower(h)) }
