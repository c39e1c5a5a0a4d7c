package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Teams.File != "teams.txt" || cfg.Teams.SkipBlank {
		t.Fatalf("unexpected teams config: %+v", cfg.Teams)
	}
	if cfg.API.BaseURL != "https://scoreboard.uscyberpatriot.org/api/image/scores.php" || cfg.API.TeamParam != "team[]" {
		t.Fatalf("unexpected api config: %+v", cfg.API)
	}
	if cfg.Output.Provider != OutputLocal || cfg.Output.Path != "team_scores.html" {
		t.Fatalf("unexpected output config: %+v", cfg.Output)
	}
	if cfg.Render.RefreshSeconds != 30 || cfg.Render.Heading != "CyberPatriot Team Scores" {
		t.Fatalf("unexpected render config: %+v", cfg.Render)
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.RequestsPerSecond != 0 || cfg.HTTP.Burst != 1 {
		t.Fatalf("expected unpaced requests by default: %+v", cfg.HTTP)
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
teams:
  file: regional.txt
  skip_blank: true
api:
  base_url: https://mirror.example.org/scores.php
  team_param: team
http:
  timeout: 45s
  user_agent: test-agent
  requests_per_second: 2.5
  burst: 3
output:
  provider: gcs
  path: boards/index.html
  gcs:
    bucket: cp-boards
render:
  title: Regional
  heading: Regional Round
  refresh_seconds: 60
metrics:
  textfile: /var/lib/node_exporter/leaderboard.prom
logging:
  development: false
server:
  port: 9090
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Teams.File != "regional.txt" || !cfg.Teams.SkipBlank {
		t.Fatalf("expected teams overrides to apply: %+v", cfg.Teams)
	}
	if cfg.API.BaseURL != "https://mirror.example.org/scores.php" || cfg.API.TeamParam != "team" {
		t.Fatalf("expected api overrides to apply: %+v", cfg.API)
	}
	if cfg.HTTP.Timeout != 45*time.Second || cfg.HTTP.UserAgent != "test-agent" ||
		cfg.HTTP.RequestsPerSecond != 2.5 || cfg.HTTP.Burst != 3 {
		t.Fatalf("expected http overrides to apply: %+v", cfg.HTTP)
	}
	if cfg.Output.Provider != OutputGCS || cfg.Output.GCS.Bucket != "cp-boards" || cfg.Output.Path != "boards/index.html" {
		t.Fatalf("expected output overrides to apply: %+v", cfg.Output)
	}
	if cfg.Render.RefreshSeconds != 60 || cfg.Render.Title != "Regional" {
		t.Fatalf("expected render overrides to apply: %+v", cfg.Render)
	}
	if cfg.Metrics.Textfile == "" || cfg.Logging.Development || cfg.Server.Port != 9090 {
		t.Fatalf("expected ambient overrides to apply: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEADERBOARD_OUTPUT_PATH", "public/index.html")
	t.Setenv("LEADERBOARD_RENDER_REFRESH_SECONDS", "15")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Path != "public/index.html" {
		t.Fatalf("expected env output path, got %q", cfg.Output.Path)
	}
	if cfg.Render.RefreshSeconds != 15 {
		t.Fatalf("expected env refresh seconds, got %d", cfg.Render.RefreshSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Teams:  TeamsConfig{File: "teams.txt"},
		API:    APIConfig{BaseURL: "https://example.org/scores.php", TeamParam: "team[]"},
		HTTP:   HTTPConfig{Timeout: time.Second, Burst: 1},
		Output: OutputConfig{Provider: OutputLocal, Path: "team_scores.html"},
		Render: RenderConfig{RefreshSeconds: 30},
		Server: ServerConfig{Port: 8080},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "missing teams file", mutate: func(c *Config) { c.Teams.File = " " }, want: "teams.file"},
		{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "" }, want: "api.base_url"},
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "/scores.php" }, want: "api.base_url"},
		{name: "missing team param", mutate: func(c *Config) { c.API.TeamParam = "" }, want: "api.team_param"},
		{name: "invalid timeout", mutate: func(c *Config) { c.HTTP.Timeout = 0 }, want: "http.timeout"},
		{name: "negative rate", mutate: func(c *Config) { c.HTTP.RequestsPerSecond = -1 }, want: "http.requests_per_second"},
		{name: "invalid burst", mutate: func(c *Config) { c.HTTP.Burst = 0 }, want: "http.burst"},
		{name: "unknown provider", mutate: func(c *Config) { c.Output.Provider = "s3" }, want: "output.provider"},
		{name: "gcs without bucket", mutate: func(c *Config) { c.Output.Provider = OutputGCS }, want: "output.gcs.bucket"},
		{name: "missing output path", mutate: func(c *Config) { c.Output.Path = "" }, want: "output.path"},
		{name: "invalid refresh", mutate: func(c *Config) { c.Render.RefreshSeconds = 0 }, want: "render.refresh_seconds"},
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 0 }, want: "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
