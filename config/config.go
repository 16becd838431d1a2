/*
Package config loads the server configuration from a YAML file.

PURPOSE:
  One file configures the listen port, database path, initial hour grant,
  the dispatcher binding, and the reminder scheduler. A missing file is
  not an error - every field has a default - but a malformed file is.

EXAMPLE:
  port: 8080
  db_path: lessons.db
  default_hours: 30
  dispatcher:
    mode: issues
    issues:
      repo: strum/lesson-requests
      token: ${TOKEN}
  reminders:
    enabled: true
    check_interval: 1h
*/
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/strum/lesson-engine/notify"
)

type Config struct {
	Port         int           `yaml:"port"`
	DBPath       string        `yaml:"db_path"`
	DefaultHours float64       `yaml:"default_hours"`
	IntroText    string        `yaml:"intro_text"`
	Dispatcher   notify.Config `yaml:"dispatcher"`
	Reminders    Reminders     `yaml:"reminders"`
}

type Reminders struct {
	Enabled       bool     `yaml:"enabled"`
	CheckInterval Duration `yaml:"check_interval"`
}

// Duration decodes YAML strings like "30m" or "1h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Port:         8080,
		DBPath:       "lessons.db",
		DefaultHours: 30,
		Reminders: Reminders{
			Enabled:       false,
			CheckInterval: Duration(time.Hour),
		},
	}
}

// Load reads the file at path over the defaults. An empty path or a
// missing file yields the defaults; malformed YAML is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Port <= 0 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DefaultHours <= 0 {
		return Config{}, fmt.Errorf("invalid default_hours %v", cfg.DefaultHours)
	}
	if cfg.Reminders.CheckInterval <= 0 {
		cfg.Reminders.CheckInterval = Duration(time.Hour)
	}
	return cfg, nil
}
