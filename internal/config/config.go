package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// OTelConfig holds the OpenTelemetry log export settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	ExportDir      string `json:"exportDir" mapstructure:"exportDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// GormConfig holds relational storage backend settings. Connection
// parameters for Postgres live under the top-level db section.
type GormConfig struct {
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// StorageConfig selects and parameterizes the results backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	Gorm   GormConfig   `json:"gorm" mapstructure:"gorm"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./sarlogs")

	viper.SetDefault("trialDir", "./trial_data")
	viper.SetDefault("mapDir", "./map_data")
	viper.SetDefault("surveyFile", "./survey_data.csv")
	viper.SetDefault("workers", 4)
	viper.SetDefault("godAccounts", []string{"ASIST2", "ASIST3", "ASIST6", "ASU_MC"})

	viper.SetDefault("mission.durationSeconds", 600)
	viper.SetDefault("mission.victimExpirySeconds", 300)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.exportDir", "./processed_data")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.gorm.sqlitePath", "./sar_analyzer.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "asist")

	viper.SetDefault("api.serverUrl", "")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("influx.enabled", true)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "asist-metrics")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "sar-analyzer")
	viper.SetDefault("otel.batchTimeoutSeconds", 5)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("sar_analyzer.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Storage returns the storage section as a typed struct.
func Storage() (StorageConfig, error) {
	var cfg StorageConfig
	if err := viper.UnmarshalKey("storage", &cfg); err != nil {
		return StorageConfig{}, fmt.Errorf("error parsing storage config: %v", err)
	}
	return cfg, nil
}

// GetOTelConfig returns the otel section as a typed struct.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: time.Duration(viper.GetInt("otel.batchTimeoutSeconds")) * time.Second,
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetStringSlice returns a string list config value.
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}
