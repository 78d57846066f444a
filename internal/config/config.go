// Package config provides YAML-based configuration loading for AirGrid.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level AirGrid configuration, loaded from airgrid.yaml.
type Config struct {
	Timezone  TimezoneConfig  `yaml:"timezone"`
	DB        DBConfig        `yaml:"db"`
	Server    ServerConfig    `yaml:"server"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Lanes     LanesConfig     `yaml:"lanes"`
	Resources ResourcesConfig `yaml:"resources"`
	Networks  []NetworkConfig `yaml:"networks"`
}

// TimezoneConfig names the production-local and secondary display zones.
type TimezoneConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// DBConfig holds connection settings for the relational store. The sqlite
// driver is the default; mysql is for shared deployments.
type DBConfig struct {
	Driver   string `yaml:"driver"` // sqlite | mysql
	Path     string `yaml:"path"`   // sqlite file path
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// IngestConfig describes the OBS CSV feed.
type IngestConfig struct {
	Path     string `yaml:"path"`     // file path of the CSV feed
	Schedule string `yaml:"schedule"` // 5-field cron expression; empty disables polling
	Source   string `yaml:"source"`   // feed tag; imports replace rows per source
}

// LanesConfig controls timeline lane ordering.
type LanesConfig struct {
	Pinned string `yaml:"pinned"` // lane key that always sorts first
}

// ResourcesConfig seeds the resource registries at migration time.
type ResourcesConfig struct {
	Encoders     []string `yaml:"encoders"`
	Booths       []string `yaml:"booths"`
	Producers    []string `yaml:"producers"`
	Commentators []string `yaml:"commentators"`
	Suites       []string `yaml:"suites"`
}

// NetworkConfig maps a canonical network label to the feed spellings that
// resolve to it. Matching is substring-based and resolved once at data
// load, never per render.
type NetworkConfig struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Timezone.Primary == "" {
		c.Timezone.Primary = "Europe/Rome"
	}
	if c.Timezone.Secondary == "" {
		c.Timezone.Secondary = "America/New_York"
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Path == "" {
		c.DB.Path = "airgrid.db"
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.User == "" {
		c.DB.User = "root"
	}
	if c.DB.Database == "" {
		c.DB.Database = "airgrid"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Ingest.Source == "" {
		c.Ingest.Source = "obs"
	}
	if c.Lanes.Pinned == "" {
		c.Lanes.Pinned = "On Air"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("db.driver must be sqlite or mysql, got %q", c.DB.Driver))
	}
	if _, err := time.LoadLocation(c.Timezone.Primary); err != nil {
		errs = append(errs, fmt.Sprintf("timezone.primary %q is not a valid IANA zone", c.Timezone.Primary))
	}
	if _, err := time.LoadLocation(c.Timezone.Secondary); err != nil {
		errs = append(errs, fmt.Sprintf("timezone.secondary %q is not a valid IANA zone", c.Timezone.Secondary))
	}
	for i, n := range c.Networks {
		if n.Name == "" {
			errs = append(errs, fmt.Sprintf("networks[%d].name is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// PrimaryLocation loads the production-local zone. Date-only inputs are
// interpreted in this zone, never the host machine's.
func (c *Config) PrimaryLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone.Primary)
	if err != nil {
		return nil, fmt.Errorf("config: load primary zone %q: %w", c.Timezone.Primary, err)
	}
	return loc, nil
}

// SecondaryLocation loads the secondary display zone.
func (c *Config) SecondaryLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone.Secondary)
	if err != nil {
		return nil, fmt.Errorf("config: load secondary zone %q: %w", c.Timezone.Secondary, err)
	}
	return loc, nil
}
