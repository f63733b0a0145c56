package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds client settings. Values come from an optional YAML file,
// overridden by BOARDGAME_* environment variables.
type Config struct {
	APIBaseURL string `yaml:"api_base_url"`
	DBPath     string `yaml:"db_path"`
	LogPath    string `yaml:"log_path"`
	LogLevel   string `yaml:"log_level"`
}

func defaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		APIBaseURL: "http://localhost:8080",
		DBPath:     filepath.Join(home, ".boardgame", "state.db"),
		LogPath:    filepath.Join(home, ".boardgame", "client.log"),
		LogLevel:   "info",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.APIBaseURL = getEnv("BOARDGAME_API_URL", cfg.APIBaseURL)
	cfg.DBPath = getEnv("BOARDGAME_DB_PATH", cfg.DBPath)
	cfg.LogPath = getEnv("BOARDGAME_LOG_PATH", cfg.LogPath)
	cfg.LogLevel = getEnv("BOARDGAME_LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
