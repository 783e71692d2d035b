package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Chip      ChipConfig      `mapstructure:"chip"`
	Grid      GridConfig      `mapstructure:"grid"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// ChipConfig fixes the ground footprint of every chip. Changing it on a
// live deployment invalidates all existing labels, so it is configuration,
// not API input.
type ChipConfig struct {
	SizeMeters       float64 `mapstructure:"size_meters"`
	SizePixels       int     `mapstructure:"size_pixels"`
	ResolutionMeters float64 `mapstructure:"resolution_meters"`
}

type GridConfig struct {
	MaxChips    int     `mapstructure:"max_chips"`
	MaxLatitude float64 `mapstructure:"max_latitude"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Prefix  string `mapstructure:"prefix"`
	Enabled bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// ChipSpec converts the chip section into the domain type.
func (c *Config) ChipSpec() domain.ChipSpec {
	return domain.ChipSpec{
		SizeMeters:       c.Chip.SizeMeters,
		SizePixels:       c.Chip.SizePixels,
		ResolutionMeters: c.Chip.ResolutionMeters,
	}
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("chip.size_meters", domain.DefaultChipSpec.SizeMeters)
	v.SetDefault("chip.size_pixels", domain.DefaultChipSpec.SizePixels)
	v.SetDefault("chip.resolution_meters", domain.DefaultChipSpec.ResolutionMeters)
	v.SetDefault("grid.max_chips", 10000)
	v.SetDefault("grid.max_latitude", 85.0)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", true)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.prefix", "geolabel:")
	v.SetDefault("valkey.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GEOLABEL_CHIP_SIZE_METERS → chip.size_meters
	v.SetEnvPrefix("GEOLABEL")
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
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if err := c.ChipSpec().Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Grid.MaxChips <= 0 {
		errs = append(errs, "grid.max_chips must be positive")
	}
	if c.Grid.MaxLatitude <= 0 || c.Grid.MaxLatitude >= 90 {
		errs = append(errs, fmt.Sprintf("grid.max_latitude must be in (0, 90), got %g", c.Grid.MaxLatitude))
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
