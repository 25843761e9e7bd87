// Package config holds user preferences stored as YAML next to the database.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/retcal/internal/logger"
	"github.com/julianstephens/retcal/internal/models"
)

const (
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"

	DefaultCalendarName = "Retention Calendar"
)

// Config is the user settings file.
type Config struct {
	// DefaultIntervals seeds the repeat-interval editor of a new goal.
	DefaultIntervals []int `yaml:"default_intervals"`

	// WeekStart is the first column of the month grid: "monday" or "sunday".
	WeekStart string `yaml:"week_start"`

	// ExportCalendarName is the X-WR-CALNAME of exported ICS files.
	ExportCalendarName string `yaml:"export_calendar_name"`

	// AutoBackup snapshots the database before destructive commands.
	AutoBackup bool `yaml:"auto_backup"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultIntervals:   []int(models.DefaultIntervals()),
		WeekStart:          WeekStartMonday,
		ExportCalendarName: DefaultCalendarName,
		AutoBackup:         true,
	}
}

// Normalize replaces missing or invalid values with defaults so older or
// hand-edited files still load.
func (c *Config) Normalize() {
	if err := models.Intervals(c.DefaultIntervals).Validate(); err != nil {
		if c.DefaultIntervals != nil {
			logger.Warn("Ignoring invalid default_intervals", "value", c.DefaultIntervals, "error", err)
		}
		c.DefaultIntervals = []int(models.DefaultIntervals())
	}

	switch c.WeekStart {
	case WeekStartMonday, WeekStartSunday:
	default:
		c.WeekStart = WeekStartMonday
	}

	if c.ExportCalendarName == "" {
		c.ExportCalendarName = DefaultCalendarName
	}
}

// Intervals returns a fresh copy of the default interval list.
func (c *Config) Intervals() models.Intervals {
	out := make(models.Intervals, len(c.DefaultIntervals))
	copy(out, c.DefaultIntervals)
	return out
}

// FirstWeekday returns the weekday shown in the first grid column.
func (c *Config) FirstWeekday() time.Weekday {
	if c.WeekStart == WeekStartSunday {
		return time.Sunday
	}
	return time.Monday
}

// Load reads the settings file at path. A missing file is created with
// defaults on first run.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("settings path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			logger.Info("Created default settings file", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("settings path is empty")
	}
	if cfg == nil {
		return errors.New("settings are nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".retcal-settings-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}

// YAML renders the settings as they would be written to disk.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to serialize settings: %w", err)
	}
	return string(data), nil
}
