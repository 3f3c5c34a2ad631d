package config

import "path/filepath"

// Config represents the structure of config.yml used by the tool.
// Every field has an embedded default so the file is optional.
type Config struct {
	DataDir string `yaml:"data_dir"`

	Files struct {
		TotalEmissions    string `yaml:"total_emissions"`
		PerCapita         string `yaml:"per_capita"`
		Sources           string `yaml:"sources"`
		TotalMetadata     string `yaml:"total_metadata"`
		PerCapitaMetadata string `yaml:"per_capita_metadata"`
	} `yaml:"files"`

	DefaultStartYear int `yaml:"default_start_year"`
	DefaultEndYear   int `yaml:"default_end_year"`
	TopN             int `yaml:"top_n"`

	// Regions maps a region name to the ISO3 codes it groups.
	Regions map[string][]string `yaml:"regions"`

	// SourceColors is the display palette per emission source,
	// passed through to the UI as-is.
	SourceColors map[string]string `yaml:"source_colors"`
}

// Default returns the configuration used when no config file is present.
// The region grouping and palette mirror the published dashboard.
func Default() *Config {
	c := &Config{
		DataDir:          "data",
		DefaultStartYear: 1990,
		DefaultEndYear:   2021,
		TopN:             10,
		Regions: map[string][]string{
			"North America": {"USA", "CAN", "MEX"},
			"Europe":        {"DEU", "GBR", "FRA", "ITA", "ESP"},
			"Asia":          {"CHN", "IND", "JPN", "KOR", "IDN"},
			"Middle East":   {"SAU", "IRN", "ARE", "QAT", "KWT"},
			"Africa":        {"ZAF", "NGA", "EGY", "DZA", "MAR"},
			"South America": {"BRA", "ARG", "COL", "CHL", "PER"},
			"Oceania":       {"AUS", "NZL"},
		},
		SourceColors: map[string]string{
			"Coal":    "#E57373",
			"Oil":     "#FFB74D",
			"Gas":     "#FFF176",
			"Cement":  "#90CAF9",
			"Flaring": "#CE93D8",
			"Other":   "#80CBC4",
		},
	}
	c.Files.TotalEmissions = "GCB2022v27_MtCO2_flat.csv"
	c.Files.PerCapita = "GCB2022v27_percapita_flat.csv"
	c.Files.Sources = "GCB2022v27_sources_flat.csv"
	c.Files.TotalMetadata = "GCB2022v27_MtCO2_flat_metadata.json"
	c.Files.PerCapitaMetadata = "GCB2022v27_percapita_flat_metadata.json"
	return c
}

// Path helpers resolving file names against the data directory.

func (c *Config) TotalEmissionsPath() string { return filepath.Join(c.DataDir, c.Files.TotalEmissions) }

func (c *Config) PerCapitaPath() string { return filepath.Join(c.DataDir, c.Files.PerCapita) }

func (c *Config) SourcesPath() string { return filepath.Join(c.DataDir, c.Files.Sources) }

func (c *Config) TotalMetadataPath() string { return filepath.Join(c.DataDir, c.Files.TotalMetadata) }

func (c *Config) PerCapitaMetadataPath() string {
	return filepath.Join(c.DataDir, c.Files.PerCapitaMetadata)
}
