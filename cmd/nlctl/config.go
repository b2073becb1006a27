package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

type fileConfig struct {
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
	Table       uint32 `toml:"route_table"`
}

type config struct {
	logLevel    zerolog.Level
	metricsAddr string
	routeTable  uint32
}

func defaultConfig() config {
	return config{logLevel: zerolog.InfoLevel}
}

// loadConfig reads the optional nlctl.toml. Absent file and absent keys
// both fall back to defaults; only keys present in the file override.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load nlctl config: %w", err)
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.logLevel = level
	}

	if meta.IsDefined("metrics_addr") {
		cfg.metricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if meta.IsDefined("route_table") {
		cfg.routeTable = raw.Table
	}

	return cfg, nil
}
