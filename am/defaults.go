package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// defaultAllowedOrigins is used when server.allowed_origins is empty
var defaultAllowedOrigins = []string{
	"http://localhost",
	"https://localhost",
	"http://127.0.0.1",
	"https://127.0.0.1",
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "wmsnav.db")

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", defaultAllowedOrigins)
	v.SetDefault("server.rate_limit_per_minute", 600)

	v.SetDefault("wms.default_persona", "comerciante")
	v.SetDefault("wms.data_load_delay_ms", DefaultDataLoadDelayMS)
	v.SetDefault("wms.connection_delay_ms", DefaultConnectionDelayMS)

	v.SetDefault("log.json", false)
}

// BindEnvVars explicitly binds commonly overridden settings to environment variables
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "WMSNAV_DATABASE_PATH")
	v.BindEnv("server.port", "WMSNAV_SERVER_PORT")
	v.BindEnv("log.json", "WMSNAV_LOG_JSON")
}

// GetServerPort returns the configured server port, or DefaultServerPort
func GetServerPort() int {
	cfg, err := Load()
	if err != nil || cfg.Server.Port == 0 {
		return DefaultServerPort
	}
	return cfg.Server.Port
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "wmsnav.db"
	}
	return c.Database.Path
}

// GetServerAllowedOrigins returns the allowed CORS origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		out := make([]string, len(defaultAllowedOrigins))
		copy(out, defaultAllowedOrigins)
		return out
	}
	return c.Server.AllowedOrigins
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Server: {Port: %d}, WMS: {DefaultPersona: %s}}",
		c.Database.Path, c.Server.Port, c.WMS.DefaultPersona)
}
