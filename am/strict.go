package am

import (
	"github.com/BurntSushi/toml"

	"github.com/teranos/wmsnav/errors"
)

// UnknownKeys decodes a TOML config file strictly and returns the keys that do
// not map onto Config. Viper silently ignores them, so typos go unnoticed.
func UnknownKeys(configPath string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(configPath, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", configPath)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return unknown, nil
}

// ValidateFile loads configPath, rejects unknown keys and runs Validate
func ValidateFile(configPath string) (*Config, error) {
	unknown, err := UnknownKeys(configPath)
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		return nil, errors.WithHint(
			errors.Newf("%s: unknown keys %v", configPath, unknown),
			"check spelling against `wmsnav am show`",
		)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validate %s", configPath)
	}
	return cfg, nil
}
