// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     config
// Description: TOML configuration for the taxon CLI and the taxond service
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	mdwerror "github.com/msto63/taxon/foundation/core/error"
	"github.com/msto63/taxon/foundation/core/validation"
	"github.com/msto63/taxon/foundation/utils/validationx"
)

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general"`
	Client  ClientConfig  `toml:"client"`
	Server  ServerConfig  `toml:"server"`
}

// GeneralConfig holds settings shared by every binary
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// ClientConfig holds the connection settings used by the taxon CLI.
// A zero TimeoutMS is left for the client to default.
type ClientConfig struct {
	URL       string `toml:"url"`
	Token     string `toml:"token"`
	Ref       string `toml:"ref"`
	TimeoutMS int    `toml:"timeout_ms"`
	Transport string `toml:"transport"`
	Protocol  string `toml:"protocol"`
}

// ServerConfig holds the taxond service settings
type ServerConfig struct {
	Host            string   `toml:"host"`
	GRPCPort        int      `toml:"grpc_port"`
	HTTPPort        int      `toml:"http_port"`
	DataFile        string   `toml:"data_file"`
	JWTSecret       string   `toml:"jwt_secret"`
	TokenTTL        Duration `toml:"token_ttl"`
	RateLimitRPS    float64  `toml:"rate_limit_rps"`
	RateLimitBurst  int      `toml:"rate_limit_burst"`
	CacheSize       int      `toml:"cache_size"`
	CacheTTL        Duration `toml:"cache_ttl"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// GRPCAddress returns the gRPC listen address
func (s ServerConfig) GRPCAddress() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.GRPCPort))
}

// HTTPAddress returns the HTTP listen address
func (s ServerConfig) HTTPAddress() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.HTTPPort))
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.applyEnv()

	return &cfg, nil
}

// LoadFromEnv loads configuration from the TAXON_CONFIG environment
// variable or the first default location that exists. Without any file
// the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("TAXON_CONFIG"); path != "" {
		return Load(path)
	}

	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

func defaultPaths() []string {
	paths := []string{"./configs/taxon.toml", "./taxon.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "taxon", "taxon.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "json"
	}

	if c.Client.URL == "" {
		c.Client.URL = "localhost:9300"
	}
	if c.Client.Transport == "" {
		c.Client.Transport = "grpc"
	}
	if c.Client.Protocol == "" {
		c.Client.Protocol = "proto"
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9300
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 9301
	}
	if c.Server.DataFile == "" {
		c.Server.DataFile = "./configs/taxa.yaml"
	}
	if c.Server.TokenTTL.Duration == 0 {
		c.Server.TokenTTL.Duration = 24 * time.Hour
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 5 * time.Minute
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
}

// expandEnvVars expands environment variables in secrets and paths
func (c *Config) expandEnvVars() {
	c.Client.Token = os.ExpandEnv(c.Client.Token)
	c.Server.JWTSecret = os.ExpandEnv(c.Server.JWTSecret)
	c.Server.DataFile = os.ExpandEnv(c.Server.DataFile)
}

// applyEnv lets TAXON_URL, TAXON_TOKEN and TAXON_REF override the file
func (c *Config) applyEnv() {
	if v := os.Getenv("TAXON_URL"); v != "" {
		c.Client.URL = v
	}
	if v := os.Getenv("TAXON_TOKEN"); v != "" {
		c.Client.Token = v
	}
	if v := os.Getenv("TAXON_REF"); v != "" {
		c.Client.Ref = v
	}
}

// ValidateServer checks the settings taxond needs before it binds ports
func (c *Config) ValidateServer() error {
	result := validation.NewFieldSet().
		Field("general.log_level", c.General.LogLevel, validationx.In("debug", "info", "warn", "error")).
		Field("general.log_format", c.General.LogFormat, validationx.In("json", "text", "console")).
		Field("server.grpc_port", c.Server.GRPCPort, validationx.Range(1, 65535)).
		Field("server.http_port", c.Server.HTTPPort, validationx.Range(1, 65535)).
		Field("server.data_file", c.Server.DataFile, validationx.Required).
		Field("server.rate_limit_rps", c.Server.RateLimitRPS, validationx.Min(0)).
		Field("server.rate_limit_burst", c.Server.RateLimitBurst, validationx.Min(0)).
		Field("server.cache_size", c.Server.CacheSize, validationx.Min(0)).
		Validate()

	if c.Server.GRPCPort == c.Server.HTTPPort {
		result = validation.Combine(result, validation.NewValidationErrorWithField(
			validation.CodeCustom, "server.http_port", "must differ from server.grpc_port", c.Server.HTTPPort))
	}
	return result.ToErrorWithCode(mdwerror.CodeInvalidConfig)
}
