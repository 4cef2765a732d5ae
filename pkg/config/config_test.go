package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RANKWATCH_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "15 * * * *", cfg.Schedule)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, "rank", cfg.Worksheet)
	assert.Equal(t, "credentials.json", cfg.CredentialsPath)
	assert.Equal(t, "http", cfg.Fetcher)
	assert.Equal(t, 60, cfg.FetchTimeout)
	assert.Equal(t, "default", cfg.Source("schedule"))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RANKWATCH_CONFIG_PATH", dir)

	content := `
schedule: "30 * * * *"
spreadsheet_id: sheet-abc
fetcher: browser
targets:
  - slug: paper
    name: The Book
    url: https://www.amazon.co.jp/dp/4000000000
    kind: book
    columns: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "30 * * * *", cfg.Schedule)
	assert.Equal(t, "file", cfg.Source("schedule"))
	assert.Equal(t, "sheet-abc", cfg.SpreadsheetID)
	assert.Equal(t, "browser", cfg.Fetcher)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "paper", cfg.Targets[0].Slug)
	assert.Equal(t, 3, cfg.Targets[0].Columns)

	// untouched attributes keep defaults
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, "default", cfg.Source("timezone"))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RANKWATCH_CONFIG_PATH", dir)

	content := "schedule: \"30 * * * *\"\nworksheet: from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	t.Setenv("RANKWATCH_WORKSHEET", "from-env")
	t.Setenv("RANKWATCH_FETCH_TIMEOUT", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Worksheet)
	assert.Equal(t, "environment", cfg.Source("worksheet"))
	assert.Equal(t, 15, cfg.FetchTimeout)
	assert.Equal(t, "30 * * * *", cfg.Schedule)
	assert.Equal(t, "file", cfg.Source("schedule"))
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RANKWATCH_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not yaml"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad schedule",
			mutate:  func(c *Config) { c.Schedule = "not a cron" },
			wantErr: "invalid schedule",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Timezone = "Mars/Olympus" },
			wantErr: "invalid timezone",
		},
		{
			name:    "bad fetcher",
			mutate:  func(c *Config) { c.Fetcher = "carrier-pigeon" },
			wantErr: "invalid fetcher type",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.FetchTimeout = 0 },
			wantErr: "fetch_timeout must be positive",
		},
		{
			name: "target without slug",
			mutate: func(c *Config) {
				c.Targets = []TargetConfig{{URL: "https://example.com"}}
			},
			wantErr: "has no slug",
		},
		{
			name: "duplicate slugs",
			mutate: func(c *Config) {
				c.Targets = []TargetConfig{
					{Slug: "a", URL: "https://example.com/1"},
					{Slug: "a", URL: "https://example.com/2"},
				}
			},
			wantErr: "duplicate target slug",
		},
		{
			name: "target without url",
			mutate: func(c *Config) {
				c.Targets = []TargetConfig{{Slug: "a"}}
			},
			wantErr: "has no url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestFormatText(t *testing.T) {
	t.Setenv("RANKWATCH_CONFIG_PATH", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	out := cfg.FormatText()
	assert.Contains(t, out, "schedule")
	assert.Contains(t, out, "15 * * * *")
	assert.Contains(t, out, "(not set)")
}

func TestFormatJSON(t *testing.T) {
	t.Setenv("RANKWATCH_CONFIG_PATH", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	out, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"attributes"`)
	assert.Contains(t, out, `"schedule"`)
}
