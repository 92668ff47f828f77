package am

import (
	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/wms/persona"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be in 1..65535, got %d", c.Server.Port)
	}

	// 0 disables rate limiting
	if c.Server.RateLimitPerMinute < 0 {
		return errors.Newf("server.rate_limit_per_minute must be >= 0, got %d", c.Server.RateLimitPerMinute)
	}

	if _, err := persona.Parse(c.WMS.DefaultPersona); err != nil {
		return errors.Wrap(err, "wms.default_persona")
	}

	// 0 means the flag flips immediately
	if c.WMS.DataLoadDelayMS < 0 {
		return errors.Newf("wms.data_load_delay_ms must be >= 0, got %d", c.WMS.DataLoadDelayMS)
	}
	if c.WMS.ConnectionDelayMS < 0 {
		return errors.Newf("wms.connection_delay_ms must be >= 0, got %d", c.WMS.ConnectionDelayMS)
	}

	return nil
}
