// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob, loadable from a YAML file,
// environment variables (SCHEMASCAN_ prefix), or CLI flags bound by cmd.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig governs crawl behavior and the fetch transport.
type CrawlerConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	MaxPages       int    `mapstructure:"max_pages"`
	MaxDepth       int    `mapstructure:"max_depth"`
	DelayMs        int    `mapstructure:"delay_ms"`
	RespectRobots  bool   `mapstructure:"respect_robots"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxPageBytes   int64  `mapstructure:"max_page_bytes"`
}

// OutputConfig sets where crawl snapshots are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from an optional file path plus environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCHEMASCAN")
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
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawler.user_agent", "SchemaScan/1.0 (+https://github.com/schemascan/schemascan)")
	v.SetDefault("crawler.max_pages", 50)
	v.SetDefault("crawler.max_depth", 3)
	v.SetDefault("crawler.delay_ms", 500)
	v.SetDefault("crawler.respect_robots", true)
	v.SetDefault("crawler.timeout_seconds", 15)
	v.SetDefault("crawler.max_page_bytes", 5*1024*1024)
	v.SetDefault("output.dir", "data/snapshots")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and the recommended operating bounds.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Crawler.MaxPages < 1 || c.Crawler.MaxPages > 1000 {
		return fmt.Errorf("crawler.max_pages must be within 1-1000")
	}
	if c.Crawler.MaxDepth < 0 || c.Crawler.MaxDepth > 10 {
		return fmt.Errorf("crawler.max_depth must be within 0-10")
	}
	if c.Crawler.DelayMs < 0 || c.Crawler.DelayMs > 10000 {
		return fmt.Errorf("crawler.delay_ms must be within 0-10000")
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.Crawler.MaxPageBytes <= 0 {
		return fmt.Errorf("crawler.max_page_bytes must be > 0")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must be set")
	}
	return nil
}

// Timeout converts the configured fetch timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Crawler.TimeoutSeconds) * time.Second
}

// Delay converts the configured politeness delay into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Crawler.DelayMs) * time.Millisecond
}
