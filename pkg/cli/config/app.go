package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/dosecal/dosecal/pkg/domain/model"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Window WindowConfig `toml:"window"`
}

// WindowConfig sets the retrieval window length per subscription tier
type WindowConfig struct {
	StandardDays int `toml:"standard_days"`
	PremiumDays  int `toml:"premium_days"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if err := a.ToWindowPolicy().Validate(); err != nil {
		return goerr.Wrap(err, "invalid window configuration")
	}
	return nil
}

// ToWindowPolicy converts the configuration to the domain window policy.
// Unset values fall back to the defaults.
func (a *AppConfig) ToWindowPolicy() model.WindowPolicy {
	policy := model.DefaultWindowPolicy()
	if a.Window.StandardDays != 0 {
		policy.StandardDays = a.Window.StandardDays
	}
	if a.Window.PremiumDays != 0 {
		policy.PremiumDays = a.Window.PremiumDays
	}
	return policy
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}
