// Package config provides configuration management for the Flowcast application.
package config

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Ingestion IngestionConfig `mapstructure:"ingestion"`
	Forecast  ForecastConfig  `mapstructure:"forecast" validate:"required"`
	Models    ModelsConfig    `mapstructure:"models" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the optional report-sink database connection.
// When Enabled is false the pipeline keeps results in memory only.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// IngestionConfig carries the column-alias tables for the two sources.
// Empty tables fall back to the built-in defaults.
type IngestionConfig struct {
	PrimaryAliases   map[string][]string `mapstructure:"primary_aliases"`
	SecondaryAliases map[string][]string `mapstructure:"secondary_aliases"`
}

// ForecastConfig represents split thresholds and forecasting behavior
type ForecastConfig struct {
	TestFraction         float64 `mapstructure:"test_fraction" validate:"required,gt=0,lt=1"`
	MinTotalSamples      int     `mapstructure:"min_total_samples" validate:"required,gt=0"`
	MinTestSamples       int     `mapstructure:"min_test_samples" validate:"required,gt=0"`
	HorizonDays          int     `mapstructure:"horizon_days" validate:"required,gt=0"`
	ExtrapolateBaselines bool    `mapstructure:"extrapolate_baselines"`
	CacheTTLSeconds      int     `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
	CacheMaxSize         int     `mapstructure:"cache_max_size" validate:"omitempty,gt=0"`
}

// ModelsConfig represents per-regressor hyperparameters and baseline windows
type ModelsConfig struct {
	Workers   int             `mapstructure:"workers" validate:"omitempty,gt=0"`
	Tree      TreeConfig      `mapstructure:"tree" validate:"required"`
	Forest    ForestConfig    `mapstructure:"forest" validate:"required"`
	Boosting  BoostingConfig  `mapstructure:"boosting" validate:"required"`
	Baselines BaselinesConfig `mapstructure:"baselines" validate:"required"`
}

// TreeConfig represents the single decision tree hyperparameters
type TreeConfig struct {
	MaxDepth        int     `mapstructure:"max_depth" validate:"required,gt=0"`
	MinSamplesSplit int     `mapstructure:"min_samples_split" validate:"required,gt=1"`
	MinSamplesLeaf  int     `mapstructure:"min_samples_leaf" validate:"required,gt=0"`
	CCPAlpha        float64 `mapstructure:"ccp_alpha" validate:"gte=0"`
}

// ForestConfig represents the bagged tree ensemble hyperparameters
type ForestConfig struct {
	Trees           int   `mapstructure:"trees" validate:"required,gt=0"`
	MaxDepth        int   `mapstructure:"max_depth" validate:"required,gt=0"`
	MinSamplesSplit int   `mapstructure:"min_samples_split" validate:"required,gt=1"`
	MinSamplesLeaf  int   `mapstructure:"min_samples_leaf" validate:"required,gt=0"`
	MaxFeatures     int   `mapstructure:"max_features" validate:"gte=0"`
	Seed            int64 `mapstructure:"seed"`
}

// BoostingConfig represents the boosted shallow-tree ensemble hyperparameters
type BoostingConfig struct {
	Rounds         int     `mapstructure:"rounds" validate:"required,gt=0"`
	LearningRate   float64 `mapstructure:"learning_rate" validate:"required,gt=0,lte=1"`
	MaxDepth       int     `mapstructure:"max_depth" validate:"required,gt=0"`
	MinSamplesLeaf int     `mapstructure:"min_samples_leaf" validate:"required,gt=0"`
	Seed           int64   `mapstructure:"seed"`
}

// BaselinesConfig represents the naive forecaster windows
type BaselinesConfig struct {
	PeriodDays         int `mapstructure:"period_days" validate:"required,gt=0"`
	SeasonalPeriodDays int `mapstructure:"seasonal_period_days" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig represents the recurring re-forecast job
type ScheduleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
