package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/killallgit/rgain-analyzer/pkg/errors"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

// DefaultConfigFile is read when no explicit file is given
const DefaultConfigFile = "./config/settings.yaml"

// EnvPrefix prefixes every environment override, e.g. RGAIN_SERVER_PORT
const EnvPrefix = "RGAIN"

// Init initializes the configuration system.
// An empty configFile falls back to DefaultConfigFile; a missing default file is not an error.
func Init(configFile string) error {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	explicit := configFile != ""
	if !explicit {
		configFile = DefaultConfigFile
	}
	configPath := filepath.Clean(configFile)
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetStringSlice returns a string slice config value
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("invalid server port: %d", port))
	}

	if _, err := replaygain.LookupProfile(viper.GetString("analyzer.profile")); err != nil {
		return apperrors.ConfigError("analyzer.profile", err.Error())
	}

	if _, err := logging.ParseLevel(viper.GetString("logging.level")); err != nil {
		return apperrors.ConfigError("logging.level", err.Error())
	}

	if viper.GetString("database.path") == "" {
		log.Println("[WARN] No database path configured, analysis history is disabled")
	}

	// Auto-correct invalid values
	if viper.GetDuration("analyzer.timeout") < 0 {
		viper.Set("analyzer.timeout", 0)
	}
	if viper.GetDuration("database.retention") < 0 {
		viper.Set("database.retention", 0)
	}
	if viper.GetDuration("database.prune_interval") <= 0 {
		viper.Set("database.prune_interval", time.Hour)
	}
	if viper.GetDuration("watch.min_file_age") <= 0 {
		viper.Set("watch.min_file_age", 2*time.Second)
	}
	if viper.GetInt("rate_limiting.requests_per_minute") <= 0 {
		viper.Set("rate_limiting.requests_per_minute", 30)
	}
	if viper.GetInt("rate_limiting.burst") <= 0 {
		viper.Set("rate_limiting.burst", 5)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}

	if c.Analyzer.Profile != "" {
		if _, err := replaygain.LookupProfile(c.Analyzer.Profile); err != nil {
			return apperrors.ConfigError("analyzer.profile", err.Error())
		}
	}

	if c.Analyzer.Timeout < 0 {
		c.Analyzer.Timeout = 0
	}

	if c.Database.Retention < 0 {
		c.Database.Retention = 0
	}

	if c.Database.PruneInterval <= 0 {
		c.Database.PruneInterval = time.Hour
	}

	if c.Watch.MinFileAge <= 0 {
		c.Watch.MinFileAge = 2 * time.Second
	}

	if c.RateLimiting.RequestsPerMinute <= 0 {
		c.RateLimiting.RequestsPerMinute = 30
	}

	if c.RateLimiting.Burst <= 0 {
		c.RateLimiting.Burst = 5
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Environment defaults
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.media_root", "./media")
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 5*time.Minute)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 65536)

	// Database defaults
	viper.SetDefault("database.path", "./data/rgain.db")
	viper.SetDefault("database.log_queries", false)
	viper.SetDefault("database.retention", 0)
	viper.SetDefault("database.prune_interval", time.Hour)

	// Analyzer defaults
	viper.SetDefault("analyzer.profile", replaygain.ProfileRGain)
	viper.SetDefault("analyzer.executable", "")
	viper.SetDefault("analyzer.timeout", 2*time.Minute)
	viper.SetDefault("analyzer.read_tags", true)

	// Watcher defaults
	viper.SetDefault("watch.dirs", []string{})
	viper.SetDefault("watch.extensions", []string{".mp3", ".ogg", ".m4a", ".flac", ".mp4"})
	viper.SetDefault("watch.min_file_age", 2*time.Second)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.requests_per_minute", 30)
	viper.SetDefault("rate_limiting.burst", 5)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
}
