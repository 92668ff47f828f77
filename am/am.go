package am

import "time"

// Config represents the wmsnav configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server" toml:"server" json:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
	WMS      WMSConfig      `mapstructure:"wms" toml:"wms" json:"wms" yaml:"wms"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port               int      `mapstructure:"port" toml:"port" json:"port" yaml:"port"`
	AllowedOrigins     []string `mapstructure:"allowed_origins" toml:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute" toml:"rate_limit_per_minute" json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"` // 0 disables limiting
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

// WMSConfig configures the warehouse view sessions
type WMSConfig struct {
	DefaultPersona    string `mapstructure:"default_persona" toml:"default_persona" json:"default_persona" yaml:"default_persona"` // written by `persona set` without argument
	DataLoadDelayMS   int    `mapstructure:"data_load_delay_ms" toml:"data_load_delay_ms" json:"data_load_delay_ms" yaml:"data_load_delay_ms"`
	ConnectionDelayMS int    `mapstructure:"connection_delay_ms" toml:"connection_delay_ms" json:"connection_delay_ms" yaml:"connection_delay_ms"`
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// Server port constants
const (
	DefaultServerPort = 8877
)

// Readiness delay defaults
const (
	DefaultDataLoadDelayMS   = 800
	DefaultConnectionDelayMS = 1500
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// DataLoadDelay returns the data load delay as a duration
func (c *Config) DataLoadDelay() time.Duration {
	return time.Duration(c.WMS.DataLoadDelayMS) * time.Millisecond
}

// ConnectionDelay returns the connection delay as a duration
func (c *Config) ConnectionDelay() time.Duration {
	return time.Duration(c.WMS.ConnectionDelayMS) * time.Millisecond
}
