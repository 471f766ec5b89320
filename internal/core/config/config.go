package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
)

// Config represents the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Parsing  ParsingConfig  `koanf:"parsing"`
	Engine   EngineConfig   `koanf:"engine"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// ParsingConfig controls string-to-timestamp parsing on column upload.
type ParsingConfig struct {
	// PatternDir holds YAML files with extra format patterns tried
	// before the built-in ones. Optional; the directory may be absent.
	PatternDir string `koanf:"pattern_dir"`
	// SampleSize is how many non-empty values format inference reads.
	SampleSize int `koanf:"sample_size"`
}

// EngineConfig holds defaults for the temporal operations themselves.
type EngineConfig struct {
	// Workers bounds parallelism for bulk column operations. Zero means
	// one goroutine per CPU.
	Workers int `koanf:"workers"`
	// Ambiguous and Nonexistent are the default DST policies applied
	// when a request does not name its own.
	Ambiguous   string `koanf:"ambiguous"`
	Nonexistent string `koanf:"nonexistent"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Database.Type != "" && c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}

	if c.Parsing.SampleSize <= 0 {
		return fmt.Errorf("parsing.sample_size must be > 0")
	}

	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0")
	}
	if _, err := timezone.ParseAmbiguousPolicy(c.Engine.Ambiguous); err != nil {
		return fmt.Errorf("invalid engine.ambiguous: %w", err)
	}
	if _, err := timezone.ParseNonexistentPolicy(c.Engine.Nonexistent); err != nil {
		return fmt.Errorf("invalid engine.nonexistent: %w", err)
	}

	return nil
}

// Load parses config from file + env and validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 8,
		"server.mode":             "release",
		"database.type":           "postgres",
		"database.dsn":            "postgres://localhost:5432/temporal?sslmode=disable",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"parsing.pattern_dir":     "./config/patterns",
		"parsing.sample_size":     16,
		"engine.workers":          0,
		"engine.ambiguous":        "raise",
		"engine.nonexistent":      "raise",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("TEMPORAL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "TEMPORAL_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
