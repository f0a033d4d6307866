package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// DatabaseURL is the postgres connection string
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	// EBBaselineCount is the extra-board headcount baseline that drives the
	// diversion pay-type decision
	EBBaselineCount int `yaml:"ebBaselineCount" validate:"min=0"`

	// OpenEndedDays caps how many vacancy days an open-ended absence expands to
	OpenEndedDays int `yaml:"openEndedDays,omitempty" validate:"omitempty,min=1"`

	// HTTPPort is the listen port for serve mode
	HTTPPort string `yaml:"httpPort,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from deskcover_config.yaml,
// looking in the current directory first, then in the user's home directory.
// DATABASE_URL and PORT environment variables (or a .env file) override the
// file values.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	// a missing .env file is fine; explicit env vars still apply
	_ = godotenv.Load()

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTPPort = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.OpenEndedDays == 0 {
		cfg.OpenEndedDays = 14
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
}

// findConfigFile searches for deskcover_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "deskcover_config.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
