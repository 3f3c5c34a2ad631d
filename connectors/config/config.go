package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	domain "co2-stats/domain/config"

	"gopkg.in/yaml.v3"
)

// Load parses the YAML configuration file at path, overlayed on the
// embedded defaults. Fields absent from the file keep their defaults.
func Load(path string) (*domain.Config, error) {
	c := domain.Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	slog.Info(fmt.Sprintf("Loaded config: %s", path))
	return c, nil
}

// Resolve returns the configuration for the process: the file named by
// CONFIG_PATH (default ./config.yml) when it exists, the embedded
// defaults otherwise. A missing file is not an error; a malformed one is
// logged and the defaults are used.
func Resolve() *domain.Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config.yml"
	}
	c, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("config.load.error", "path", path, "error", err)
		}
		return domain.Default()
	}
	return c
}
