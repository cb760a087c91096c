package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the application configuration.
type Config struct {
	TimeZone        string    `json:"time_zone"`        // IANA zone used for calendar entries
	CalendarID      string    `json:"calendar_id"`      // Google calendar to insert into
	MaxAttempts     int       `json:"max_attempts"`     // failed answers before the flow gives up
	Reminders       Reminders `json:"reminders"`        // calendar reminder overrides
	CredentialsFile string    `json:"credentials_file"` // OAuth client JSON from Google Cloud console
	MapsBaseURL     string    `json:"maps_base_url"`    // Distance Matrix API host
}

// Reminders configures the calendar reminder overrides. Zero disables one.
type Reminders struct {
	EmailMinutes int64 `json:"email_minutes"`
	PopupMinutes int64 `json:"popup_minutes"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		TimeZone:        "America/New_York",
		CalendarID:      "primary",
		MaxAttempts:     3,
		Reminders:       Reminders{EmailMinutes: 60, PopupMinutes: 5},
		CredentialsFile: filepath.Join(configDir(), "credentials.json"),
		MapsBaseURL:     "https://maps.googleapis.com",
	}
}

// Location resolves TimeZone, falling back to UTC when it is empty.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// configDir returns the config directory path.
// Exported as a var for testing.
var configDir = defaultConfigDir

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "event-assistant")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "event-assistant")
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(configDir(), "config.json")
}

// Exists returns true if a config file has been saved.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads the config file. Returns default config if file doesn't exist.
// Fields missing from the file keep their defaults.
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = Default().MaxAttempts
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0o600)
}
