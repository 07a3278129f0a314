package main

import (
	"synnapse/config"
)

// loadConfig reads the configuration and applies the -database override.
func loadConfig(databasePath string) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	if databasePath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.SQLite.Path = databasePath
	}

	return cfg, nil
}
