package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Client is an API client allowed to request access tokens. SecretHash is a
// bcrypt hash; see `milkchess hash-secret`.
type Client struct {
	Name       string `json:"name"`
	SecretHash string `json:"secretHash"`
}

type Config struct {
	Environment string `json:"environment"`
	Server      struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	} `json:"server"`
	CORS struct {
		AllowedOrigins []string `json:"allowedOrigins"`
	} `json:"cors"`
	Storage struct {
		Driver    string `json:"driver"`    // badger, mongo or none
		BadgerDir string `json:"badgerDir"` // empty means in-memory
		CacheTTL  int    `json:"cacheTtl"`  // in minutes
	} `json:"storage"`
	MongoDB struct {
		URI      string `json:"uri"`
		Database string `json:"database"`
	} `json:"mongodb"`
	Auth struct {
		Enabled   bool     `json:"enabled"`
		JWTSecret string   `json:"jwtSecret"`
		TokenTTL  int      `json:"tokenTtl"` // in minutes
		Clients   []Client `json:"clients"`
	} `json:"auth"`
	Analysis struct {
		MaxPerftDepth int `json:"maxPerftDepth"`
		BatchWorkers  int `json:"batchWorkers"`
		MaxBatchSize  int `json:"maxBatchSize"`
	} `json:"analysis"`
}

const (
	DriverBadger = "badger"
	DriverMongo  = "mongo"
	DriverNone   = "none"
)

func Load(env string) (*Config, error) {
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		// Default to configs directory relative to working directory
		configDir = "configs"
	}

	filename := fmt.Sprintf("config.%s.json", env)
	configPath := filepath.Join(configDir, filename)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Environment = env
	return cfg, nil
}

// Parse decodes a config document, expanding ${VAR} references and filling
// in defaults for anything left unset.
func Parse(data []byte) (*Config, error) {
	// Replace environment variables in the config
	configStr := expandEnvVars(string(data))

	var cfg Config
	if err := json.Unmarshal([]byte(configStr), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 9029
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverBadger
	}
	if c.Storage.CacheTTL == 0 {
		c.Storage.CacheTTL = 60
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = "milkchess"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 60
	}
	if c.Analysis.MaxPerftDepth == 0 {
		c.Analysis.MaxPerftDepth = 5
	}
	if c.Analysis.BatchWorkers == 0 {
		c.Analysis.BatchWorkers = 4
	}
	if c.Analysis.MaxBatchSize == 0 {
		c.Analysis.MaxBatchSize = 256
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverBadger, DriverNone:
	case DriverMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("storage driver %q requires mongodb.uri", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth is enabled but auth.jwtSecret is empty")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CacheTTL returns the analysis cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Storage.CacheTTL) * time.Minute
}

// TokenTTL returns the access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTL) * time.Minute
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		return os.Getenv(key)
	})
}

func GetEnv() string {
	env := os.Getenv("MILKCHESS_ENV")
	if env == "" {
		return "dev"
	}
	return env
}
