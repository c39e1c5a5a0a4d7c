// Package config loads and validates leaderboard configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Output providers.
const (
	OutputLocal  = "local"
	OutputGCS    = "gcs"
	OutputMemory = "memory"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Teams   TeamsConfig   `mapstructure:"teams"`
	API     APIConfig     `mapstructure:"api"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Output  OutputConfig  `mapstructure:"output"`
	Render  RenderConfig  `mapstructure:"render"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// TeamsConfig locates the team list.
type TeamsConfig struct {
	File      string `mapstructure:"file"`
	SkipBlank bool   `mapstructure:"skip_blank"`
}

// APIConfig describes the scoreboard endpoint.
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	TeamParam string `mapstructure:"team_param"`
}

// HTTPConfig configures the fetch client.
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// OutputConfig selects where the rendered page is written.
type OutputConfig struct {
	Provider string    `mapstructure:"provider"`
	Path     string    `mapstructure:"path"`
	BaseDir  string    `mapstructure:"base_dir"`
	GCS      GCSConfig `mapstructure:"gcs"`
}

// GCSConfig configures the gcs output provider.
type GCSConfig struct {
	Bucket string `mapstructure:"bucket"`
}

// RenderConfig controls page text and the refresh interval.
type RenderConfig struct {
	Title          string `mapstructure:"title"`
	Heading        string `mapstructure:"heading"`
	RefreshSeconds int    `mapstructure:"refresh_seconds"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEADERBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("teams.file", "teams.txt")
	v.SetDefault("teams.skip_blank", false)
	v.SetDefault("api.base_url", "https://scoreboard.uscyberpatriot.org/api/image/scores.php")
	v.SetDefault("api.team_param", "team[]")
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.user_agent", "cp-leaderboard/1.0")
	v.SetDefault("http.requests_per_second", 0)
	v.SetDefault("http.burst", 1)
	v.SetDefault("output.provider", OutputLocal)
	v.SetDefault("output.path", "team_scores.html")
	v.SetDefault("output.base_dir", "")
	v.SetDefault("output.gcs.bucket", "")
	v.SetDefault("render.title", "Team Scores")
	v.SetDefault("render.heading", "CyberPatriot Team Scores")
	v.SetDefault("render.refresh_seconds", 30)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("logging.development", true)
	v.SetDefault("server.port", 8080)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Teams.File) == "" {
		return fmt.Errorf("teams.file must be set")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.TeamParam == "" {
		return fmt.Errorf("api.team_param must be set")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0")
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must be >= 0")
	}
	if c.HTTP.Burst < 1 {
		return fmt.Errorf("http.burst must be >= 1")
	}
	switch c.Output.Provider {
	case OutputLocal, OutputMemory:
	case OutputGCS:
		if c.Output.GCS.Bucket == "" {
			return fmt.Errorf("output.gcs.bucket must be set when output.provider is gcs")
		}
	default:
		return fmt.Errorf("output.provider must be one of local, gcs, memory, got %q", c.Output.Provider)
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("output.path must be set")
	}
	if c.Render.RefreshSeconds <= 0 {
		return fmt.Errorf("render.refresh_seconds must be > 0")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}
