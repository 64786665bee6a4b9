package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// HolidayEntry is one row of the versioned public-holiday table. Holiday
// membership is configuration, not logic: a new year means a table update.
type HolidayEntry struct {
	Date string `yaml:"date" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

// HolidayTable is the fixed, versioned lookup table of designated public
// holidays for the applicable jurisdiction.
type HolidayTable struct {
	Version  string         `yaml:"version" validate:"required"`
	Holidays []HolidayEntry `yaml:"holidays" validate:"dive"`
}

// Duration wraps time.Duration to unmarshal from YAML strings like "5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the application configuration.
type Config struct {
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	// MinPersonnel is the default per-assignment personnel target.
	MinPersonnel int `yaml:"minPersonnel" validate:"required,min=1"`

	// LockTimeout bounds scope-lock acquisition; expiry fails the caller
	// with Busy instead of deadlocking.
	LockTimeout Duration `yaml:"lockTimeout" validate:"required"`

	// DayNightHolidaySplit makes single-day holiday blocks produce separate
	// day and night assignments.
	DayNightHolidaySplit bool `yaml:"dayNightHolidaySplit"`

	HolidayTable HolidayTable `yaml:"holidayTable" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from rotation_config.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and eagerly parses every
// holiday date so a bad table entry fails at startup, not mid-generation.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	seen := make(map[string]bool, len(cfg.HolidayTable.Holidays))
	for i, entry := range cfg.HolidayTable.Holidays {
		if _, err := time.Parse(dateLayout, entry.Date); err != nil {
			return fmt.Errorf("invalid date in holidayTable.holidays[%d]: %w", i, err)
		}
		if seen[entry.Date] {
			return fmt.Errorf("duplicate date in holidayTable.holidays[%d]: %s", i, entry.Date)
		}
		seen[entry.Date] = true
	}

	return nil
}

// findConfigFile searches for rotation_config.yaml in current directory and
// home directory.
func findConfigFile() (string, error) {
	configFileName := "rotation_config.yaml"

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
