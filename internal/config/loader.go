// Package config provides configuration management for the Flowcast application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// Missing file: continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FLOWCAST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults installs the documented defaults so a minimal config file is
// enough for a full run.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "flowcast")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("forecast.test_fraction", 0.2)
	v.SetDefault("forecast.min_total_samples", 30)
	v.SetDefault("forecast.min_test_samples", 10)
	v.SetDefault("forecast.horizon_days", 90)
	v.SetDefault("forecast.extrapolate_baselines", false)
	v.SetDefault("forecast.cache_ttl_seconds", 300)
	v.SetDefault("forecast.cache_max_size", 10000)

	v.SetDefault("models.workers", 4)
	v.SetDefault("models.tree.max_depth", 6)
	v.SetDefault("models.tree.min_samples_split", 10)
	v.SetDefault("models.tree.min_samples_leaf", 5)
	v.SetDefault("models.tree.ccp_alpha", 0.0)
	v.SetDefault("models.forest.trees", 100)
	v.SetDefault("models.forest.max_depth", 8)
	v.SetDefault("models.forest.min_samples_split", 10)
	v.SetDefault("models.forest.min_samples_leaf", 5)
	v.SetDefault("models.forest.max_features", 0)
	v.SetDefault("models.forest.seed", 42)
	v.SetDefault("models.boosting.rounds", 200)
	v.SetDefault("models.boosting.learning_rate", 0.05)
	v.SetDefault("models.boosting.max_depth", 3)
	v.SetDefault("models.boosting.min_samples_leaf", 5)
	v.SetDefault("models.boosting.seed", 42)
	v.SetDefault("models.baselines.period_days", 30)
	v.SetDefault("models.baselines.seasonal_period_days", 365)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("schedule.enabled", false)
}
