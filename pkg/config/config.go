package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/rankwatch"
	ConfigFileName    = "rankwatch.yml"
)

// ValidFetchers is the list of valid fetcher engines
var ValidFetchers = []string{"http", "browser"}

// TargetConfig describes one watched product page as configured in the
// targets list
type TargetConfig struct {
	Slug    string `yaml:"slug" json:"slug"`
	Name    string `yaml:"name" json:"name"`
	URL     string `yaml:"url" json:"url"`
	Kind    string `yaml:"kind" json:"kind"`
	Columns int    `yaml:"columns" json:"columns"`
}

// Config holds all rankwatch configuration settings
type Config struct {
	// Schedule is the cron expression for scheduled collection runs
	Schedule string `yaml:"schedule" json:"schedule"`

	// Timezone is the IANA zone used for row timestamps
	Timezone string `yaml:"timezone" json:"timezone"`

	// SpreadsheetID is the destination Google Sheets spreadsheet
	SpreadsheetID string `yaml:"spreadsheet_id" json:"spreadsheet_id"`

	// Worksheet is the tab rows are appended to
	Worksheet string `yaml:"worksheet" json:"worksheet"`

	// CredentialsPath is where the service account JSON is materialized
	CredentialsPath string `yaml:"credentials_path" json:"credentials_path"`

	// ArtifactDir is the root directory for captured run artifacts
	ArtifactDir string `yaml:"artifact_dir" json:"artifact_dir"`

	// FetchTimeout is the per-target fetch timeout in seconds
	FetchTimeout int `yaml:"fetch_timeout" json:"fetch_timeout"`

	// Fetcher selects the fetch engine, "http" or "browser"
	Fetcher string `yaml:"fetcher" json:"fetcher"`

	// UserAgent is sent with plain HTTP fetches
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	// Targets is the list of watched product pages
	Targets []TargetConfig `yaml:"targets" json:"targets"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		Schedule:        "15 * * * *",
		Timezone:        "Asia/Tokyo",
		Worksheet:       "rank",
		CredentialsPath: "credentials.json",
		ArtifactDir:     "artifacts",
		FetchTimeout:    60,
		Fetcher:         "http",
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/117.0",
		Targets:         []TargetConfig{},
		sources:         make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("RANKWATCH_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"schedule", "timezone", "spreadsheet_id", "worksheet",
		"credentials_path", "artifact_dir", "fetch_timeout", "fetcher",
		"user_agent", "targets",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.Schedule != "" {
		c.Schedule = file.Schedule
		c.sources["schedule"] = "file"
	}
	if file.Timezone != "" {
		c.Timezone = file.Timezone
		c.sources["timezone"] = "file"
	}
	if file.SpreadsheetID != "" {
		c.SpreadsheetID = file.SpreadsheetID
		c.sources["spreadsheet_id"] = "file"
	}
	if file.Worksheet != "" {
		c.Worksheet = file.Worksheet
		c.sources["worksheet"] = "file"
	}
	if file.CredentialsPath != "" {
		c.CredentialsPath = file.CredentialsPath
		c.sources["credentials_path"] = "file"
	}
	if file.ArtifactDir != "" {
		c.ArtifactDir = file.ArtifactDir
		c.sources["artifact_dir"] = "file"
	}
	if file.FetchTimeout != 0 {
		c.FetchTimeout = file.FetchTimeout
		c.sources["fetch_timeout"] = "file"
	}
	if file.Fetcher != "" {
		c.Fetcher = file.Fetcher
		c.sources["fetcher"] = "file"
	}
	if file.UserAgent != "" {
		c.UserAgent = file.UserAgent
		c.sources["user_agent"] = "file"
	}
	if len(file.Targets) > 0 {
		c.Targets = file.Targets
		c.sources["targets"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("RANKWATCH_SCHEDULE"); val != "" {
		c.Schedule = val
		c.sources["schedule"] = "environment"
	}
	if val := os.Getenv("RANKWATCH_TIMEZONE"); val != "" {
		c.Timezone = val
		c.sources["timezone"] = "environment"
	}
	if val := os.Getenv("RANKWATCH_SPREADSHEET_ID"); val != "" {
		c.SpreadsheetID = val
		c.sources["spreadsheet_id"] = "environment"
	}
	if val := os.Getenv("RANKWATCH_WORKSHEET"); val != "" {
		c.Worksheet = val
		c.sources["worksheet"] = "environment"
	}
	if val := os.Getenv("RANKWATCH_CREDENTIALS_PATH"); val != "" {
		c.CredentialsPath = val
		c.sources["credentials_path"] = "environment"
	}
	if val := os.Getenv("RANKWATCH_ARTIFACT_DIR"); val != "" {
		c.ArtifactDir = val
		c.sources["artifact_dir"] = "environment"
	}
	if val := os.Getenv("RANKWATCH_FETCH_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.FetchTimeout = i
			c.sources["fetch_timeout"] = "environment"
		}
	}
	if val := os.Getenv("RANKWATCH_FETCHER"); val != "" {
		c.Fetcher = val
		c.sources["fetcher"] = "environment"
	}
	if val := os.Getenv("RANKWATCH_USER_AGENT"); val != "" {
		c.UserAgent = val
		c.sources["user_agent"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// FetchTimeoutDuration returns the fetch timeout as a duration
func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	validFetchers := make(map[string]bool)
	for _, f := range ValidFetchers {
		validFetchers[f] = true
	}
	if !validFetchers[c.Fetcher] {
		return fmt.Errorf("invalid fetcher type: %s", c.Fetcher)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %d", c.FetchTimeout)
	}

	seen := make(map[string]bool)
	for _, t := range c.Targets {
		if t.Slug == "" {
			return fmt.Errorf("target with url %q has no slug", t.URL)
		}
		if seen[t.Slug] {
			return fmt.Errorf("duplicate target slug: %s", t.Slug)
		}
		seen[t.Slug] = true
		if t.URL == "" {
			return fmt.Errorf("target %s has no url", t.Slug)
		}
		if t.Columns < 0 {
			return fmt.Errorf("target %s has negative columns", t.Slug)
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	slugs := make([]string, 0, len(c.Targets))
	for _, t := range c.Targets {
		slugs = append(slugs, t.Slug)
	}

	return []Attribute{
		{Name: "schedule", Value: c.Schedule, Source: c.Source("schedule")},
		{Name: "timezone", Value: c.Timezone, Source: c.Source("timezone")},
		{Name: "spreadsheet_id", Value: c.SpreadsheetID, Source: c.Source("spreadsheet_id")},
		{Name: "worksheet", Value: c.Worksheet, Source: c.Source("worksheet")},
		{Name: "credentials_path", Value: c.CredentialsPath, Source: c.Source("credentials_path")},
		{Name: "artifact_dir", Value: c.ArtifactDir, Source: c.Source("artifact_dir")},
		{Name: "fetch_timeout", Value: strconv.Itoa(c.FetchTimeout), Source: c.Source("fetch_timeout")},
		{Name: "fetcher", Value: c.Fetcher, Source: c.Source("fetcher")},
		{Name: "user_agent", Value: c.UserAgent, Source: c.Source("user_agent")},
		{Name: "targets", Value: strings.Join(slugs, ","), Source: c.Source("targets")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
