package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Backend string `yaml:"backend"` // sqlite (default) or postgres
	Path    string `yaml:"path"`    // sqlite file

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	// APIKey, when set, is required on backup-import requests. Empty
	// disables the check (tsnet handles access on private deployments).
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// DSN returns the migration/connection string for the selected backend.
func (d DatabaseConfig) DSN() string {
	if d.Backend == BackendPostgres {
		sslmode := d.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
	}
	return "sqlite://" + d.Path
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix MASSEBUILDER_ and
// underscore-separated paths:
//
//	MASSEBUILDER_SERVER_HOST, MASSEBUILDER_SERVER_PORT,
//	MASSEBUILDER_DB_BACKEND, MASSEBUILDER_DB_PATH,
//	MASSEBUILDER_DB_HOST, MASSEBUILDER_DB_PORT, MASSEBUILDER_DB_NAME,
//	MASSEBUILDER_DB_USER, MASSEBUILDER_DB_PASSWORD, MASSEBUILDER_DB_SSLMODE,
//	MASSEBUILDER_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Backend == "" {
		cfg.Database.Backend = BackendSQLite
	}
	if cfg.Database.Backend == BackendSQLite && cfg.Database.Path == "" {
		cfg.Database.Path = "massebuilder.db"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MASSEBUILDER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MASSEBUILDER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MASSEBUILDER_DB_BACKEND"); v != "" {
		cfg.Database.Backend = v
	}
	if v := os.Getenv("MASSEBUILDER_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("MASSEBUILDER_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MASSEBUILDER_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("MASSEBUILDER_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("MASSEBUILDER_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("MASSEBUILDER_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MASSEBUILDER_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("MASSEBUILDER_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Backend {
	case BackendSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required for the postgres backend")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required for the postgres backend")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required for the postgres backend")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required for the postgres backend")
		}
	default:
		return fmt.Errorf("database.backend must be %q or %q", BackendSQLite, BackendPostgres)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
