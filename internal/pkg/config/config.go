package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Geocoder   GeocoderConfig   `mapstructure:"geocoder"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// GeocoderConfig selects the geocode provider. "local" is the offline
// compiled-in table; "remote" is the legacy network fallback.
type GeocoderConfig struct {
	Provider      string `mapstructure:"provider"`
	RemoteURL     string `mapstructure:"remote_url"`
	RemoteTimeout int    `mapstructure:"remote_timeout"`
	MaxInFlight   int    `mapstructure:"max_in_flight"`
}

type AggregatorConfig struct {
	PublishEvery int     `mapstructure:"publish_every"`
	MaxSamples   int     `mapstructure:"max_samples"`
	MaxGapMeters float64 `mapstructure:"max_gap_meters"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mileatlas")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "mileatlas")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("geocoder.provider", "local")
	v.SetDefault("geocoder.remote_url", "")
	v.SetDefault("geocoder.remote_timeout", 5)
	v.SetDefault("geocoder.max_in_flight", 50)
	v.SetDefault("aggregator.publish_every", 10)
	v.SetDefault("aggregator.max_samples", 10)
	v.SetDefault("aggregator.max_gap_meters", 20)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: MILEATLAS_DATABASE_HOST → database.host
	v.SetEnvPrefix("MILEATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Geocoder.Provider {
	case "local":
	case "remote":
		if c.Geocoder.RemoteURL == "" {
			errs = append(errs, "geocoder.remote_url is required when geocoder.provider is remote")
		}
	default:
		errs = append(errs, fmt.Sprintf("geocoder.provider must be local or remote, got %q", c.Geocoder.Provider))
	}
	if c.Aggregator.PublishEvery <= 0 {
		errs = append(errs, "aggregator.publish_every must be positive")
	}
	if c.Aggregator.MaxSamples <= 0 {
		errs = append(errs, "aggregator.max_samples must be positive")
	}
	if c.Aggregator.MaxGapMeters <= 0 {
		errs = append(errs, "aggregator.max_gap_meters must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
