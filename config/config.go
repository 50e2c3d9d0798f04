package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Aggregator AggregatorConfig
	Query      QueryConfig
	Manifest   ManifestConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port string
}

type AggregatorConfig struct {
	Pattern         string // Glob the scheduled and API-triggered runs expand
	OutputTemplate  string // Archive path, may carry the {date} placeholder
	Scope           string
	Schedule        string
	Force           bool
	BuildIndex      bool
	Cleanup         bool
	ReadConcurrency int
	DateStamp       string // Overrides "today" as the current period, for tests and backfills
	HistorySize     int    // Recent runs kept in memory for the API
}

type QueryConfig struct {
	ShardCacheSize int
}

type ManifestConfig struct {
	FilePath string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AGGREGATOR_PATTERN", "./logs/*.log")
	viper.SetDefault("AGGREGATOR_OUTPUT", "./combined-{date}.log")
	viper.SetDefault("AGGREGATOR_SCOPE", "past")
	viper.SetDefault("AGGREGATOR_SCHEDULE", "0 0 * * * *") // Hourly, on the hour
	viper.SetDefault("AGGREGATOR_FORCE", true)
	viper.SetDefault("AGGREGATOR_BUILD_INDEX", true)
	viper.SetDefault("AGGREGATOR_CLEANUP", false)
	viper.SetDefault("AGGREGATOR_READ_CONCURRENCY", 4)
	viper.SetDefault("AGGREGATOR_HISTORY_SIZE", 32)
	viper.SetDefault("QUERY_SHARD_CACHE_SIZE", 8)
	viper.SetDefault("MANIFEST_PATH", "./logvault_state.json")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", true)

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")

	// --- Aggregator ---
	config.Aggregator.Pattern = viper.GetString("AGGREGATOR_PATTERN")
	config.Aggregator.OutputTemplate = viper.GetString("AGGREGATOR_OUTPUT")
	config.Aggregator.Scope = viper.GetString("AGGREGATOR_SCOPE")
	config.Aggregator.Schedule = viper.GetString("AGGREGATOR_SCHEDULE")
	config.Aggregator.Force = viper.GetBool("AGGREGATOR_FORCE")
	config.Aggregator.BuildIndex = viper.GetBool("AGGREGATOR_BUILD_INDEX")
	config.Aggregator.Cleanup = viper.GetBool("AGGREGATOR_CLEANUP")
	config.Aggregator.ReadConcurrency = viper.GetInt("AGGREGATOR_READ_CONCURRENCY")
	config.Aggregator.DateStamp = viper.GetString("AGGREGATOR_DATE_STAMP")
	config.Aggregator.HistorySize = viper.GetInt("AGGREGATOR_HISTORY_SIZE")

	// --- Query ---
	config.Query.ShardCacheSize = viper.GetInt("QUERY_SHARD_CACHE_SIZE")

	// --- Manifest ---
	config.Manifest.FilePath = viper.GetString("MANIFEST_PATH")

	// --- Logging ---
	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
