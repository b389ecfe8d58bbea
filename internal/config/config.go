package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Calendar describes a single ICS feed and how its items are rendered.
type Calendar struct {
	// Name is the label printed above the source's block in the report.
	Name string `yaml:"name"`
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url"`
	// ShowDescription emits a Description line under each item when the
	// feed carries one.
	ShowDescription bool `yaml:"show_description"`
	// ShowLocation emits a Location line under each item.
	ShowLocation bool `yaml:"show_location"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is an optional IANA zone name (e.g. "America/New_York")
	// used to interpret and display event times. Empty means detect the
	// host zone, falling back to UTC.
	Timezone string `yaml:"timezone"`

	// CacheDir, when set, enables the conditional-request feed cache.
	CacheDir string `yaml:"cache_dir"`

	// Calendars is the list of subscribed feeds, rendered in order.
	Calendars []Calendar `yaml:"calendars"`
}

// Normalize fills in zero values so partially-filled configs behave.
func (c *Config) Normalize() {
	if c.Calendars == nil {
		c.Calendars = []Calendar{}
	}
}

// Validate checks the invariants a run cannot proceed without. Entries
// missing a name or URL are not rejected here; the report loop skips
// them individually with a diagnostic.
func (c *Config) Validate() error {
	if len(c.Calendars) == 0 {
		return errors.New("no calendars configured")
	}
	return nil
}

// Load reads configuration from the given YAML path. A missing or
// unreadable file is an error: unlike a daemon that can start from
// defaults, a report over zero feeds is useless.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()

	return &cfg, nil
}
