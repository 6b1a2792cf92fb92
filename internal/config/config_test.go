package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "flowcast", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 0.2, cfg.Forecast.TestFraction)
	assert.Equal(t, 30, cfg.Forecast.MinTotalSamples)
	assert.Equal(t, 10, cfg.Forecast.MinTestSamples)
	assert.Equal(t, 90, cfg.Forecast.HorizonDays)
	assert.False(t, cfg.Forecast.ExtrapolateBaselines)
	assert.Equal(t, 100, cfg.Models.Forest.Trees)
	assert.Equal(t, 0.05, cfg.Models.Boosting.LearningRate)
	assert.Equal(t, 365, cfg.Models.Baselines.SeasonalPeriodDays)
	assert.False(t, cfg.Database.Enabled)

	require.NoError(t, Validate(cfg))
}

func TestLoadFileOverridesAndEnvExpansion(t *testing.T) {
	t.Setenv("FLOWCAST_TEST_DB_PASSWORD", "s3cret")

	content := `
app:
  environment: production
  log_level: warn
forecast:
  test_fraction: 0.25
  horizon_days: 30
database:
  enabled: true
  host: localhost
  name: flowcast
  user: flowcast
  password: ${FLOWCAST_TEST_DB_PASSWORD}
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 0.25, cfg.Forecast.TestFraction)
	assert.Equal(t, 30, cfg.Forecast.HorizonDays)
	assert.Equal(t, "s3cret", cfg.Database.Password)

	// Untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Forecast.MinTestSamples)

	require.NoError(t, Validate(cfg))
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadEnumValues(t *testing.T) {
	base, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	t.Run("environment", func(t *testing.T) {
		cfg := *base
		cfg.App.Environment = "qa"
		assert.Error(t, Validate(&cfg))
	})

	t.Run("log level", func(t *testing.T) {
		cfg := *base
		cfg.App.LogLevel = "verbose"
		assert.Error(t, Validate(&cfg))
	})

	t.Run("test fraction bounds", func(t *testing.T) {
		cfg := *base
		cfg.Forecast.TestFraction = 1.0
		assert.Error(t, Validate(&cfg))
	})
}

func TestValidateCrossFieldRules(t *testing.T) {
	base, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	t.Run("test minimum above total minimum", func(t *testing.T) {
		cfg := *base
		cfg.Forecast.MinTestSamples = 50
		cfg.Forecast.MinTotalSamples = 30
		err := Validate(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_test_samples")
	})

	t.Run("seasonal shorter than period", func(t *testing.T) {
		cfg := *base
		cfg.Models.Baselines.SeasonalPeriodDays = 7
		err := Validate(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "seasonal_period_days")
	})
}

func TestValidateRequiresDatabaseFieldsWhenEnabled(t *testing.T) {
	base, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg := *base
	cfg.Database.Enabled = true // host/name/user left empty
	assert.Error(t, Validate(&cfg))
}
