// Package config loads application configuration from a YAML file with
// environment-variable overrides for deploy-time secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	SES      SESConfig      `yaml:"ses"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Cache    CacheConfig    `yaml:"cache"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// RedisConfig holds the cache backend settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SESConfig holds SES transport credentials. When Enabled is false the
// server falls back to the simulated notifier.
type SESConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	FromEmail string `yaml:"from_email"`
}

// DeliveryConfig tunes the delivery simulator.
type DeliveryConfig struct {
	Workers              int     `yaml:"workers"`
	Subject              string  `yaml:"subject"`
	SimulatedFailureRate float64 `yaml:"simulated_failure_rate"`
}

// CacheConfig holds rollup TTLs. Log-backed rollups change often and get a
// short TTL; the customer list can live longer.
type CacheConfig struct {
	StatsTTLSeconds    int `yaml:"stats_ttl_seconds"`
	SummaryTTLSeconds  int `yaml:"summary_ttl_seconds"`
	CustomerTTLSeconds int `yaml:"customer_ttl_seconds"`
}

// StatsTTL returns the campaign-stats rollup TTL.
func (c CacheConfig) StatsTTL() time.Duration {
	return time.Duration(c.StatsTTLSeconds) * time.Second
}

// SummaryTTL returns the dashboard summary TTL.
func (c CacheConfig) SummaryTTL() time.Duration {
	return time.Duration(c.SummaryTTLSeconds) * time.Second
}

// CustomerTTL returns the customer list TTL.
func (c CacheConfig) CustomerTTL() time.Duration {
	return time.Duration(c.CustomerTTLSeconds) * time.Second
}

// AdvisorConfig holds the Bedrock rule-advisor settings.
type AdvisorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Region  string `yaml:"region"`
	ModelID string `yaml:"model_id"`
}

// Load reads and parses the configuration file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads the YAML config (if present) and applies environment
// overrides. A missing file is fine when the environment carries the
// required settings.
func LoadFromEnv(path string) (*Config, error) {
	// Best-effort .env for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SES_ACCESS_KEY"); v != "" {
		cfg.SES.AccessKey = v
	}
	if v := os.Getenv("SES_SECRET_KEY"); v != "" {
		cfg.SES.SecretKey = v
	}
	if v := os.Getenv("SES_FROM_EMAIL"); v != "" {
		cfg.SES.FromEmail = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.SES.Region == "" {
		c.SES.Region = "us-west-2"
	}
	if c.Delivery.Workers == 0 {
		c.Delivery.Workers = 8
	}
	if c.Delivery.Subject == "" {
		c.Delivery.Subject = "Campaign Message"
	}
	if c.Delivery.SimulatedFailureRate == 0 {
		c.Delivery.SimulatedFailureRate = 0.1
	}
	if c.Cache.StatsTTLSeconds == 0 {
		c.Cache.StatsTTLSeconds = 60
	}
	if c.Cache.SummaryTTLSeconds == 0 {
		c.Cache.SummaryTTLSeconds = 30
	}
	if c.Cache.CustomerTTLSeconds == 0 {
		c.Cache.CustomerTTLSeconds = 3600
	}
	if c.Advisor.Region == "" {
		c.Advisor.Region = "us-east-1"
	}
	if c.Advisor.ModelID == "" {
		c.Advisor.ModelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
}
