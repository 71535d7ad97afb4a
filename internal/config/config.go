package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Proctoring ProctoringConfig `mapstructure:"proctoring"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// ProctoringConfig holds the tuning knobs of the integrity engine. Violation
// limits and timing windows live here; risk weights do not (they are fixed
// constants so scores stay comparable across deployments).
type ProctoringConfig struct {
	GracePeriodMs     int `mapstructure:"grace_period_ms"`
	DebounceWindowMs  int `mapstructure:"debounce_window_ms"`
	SuspendTimeoutMs  int `mapstructure:"suspend_timeout_ms"`
	DevToolsIntervalS int `mapstructure:"devtools_interval_s"`
	GeometryIntervalS int `mapstructure:"geometry_interval_s"`

	DevToolsThresholdPx int `mapstructure:"devtools_threshold_px"`

	Limits map[string]int `mapstructure:"limits"`
}

// GracePeriod returns the configured grace period as a duration.
func (p ProctoringConfig) GracePeriod() time.Duration {
	return time.Duration(p.GracePeriodMs) * time.Millisecond
}

// DebounceWindow returns the configured debounce window as a duration.
func (p ProctoringConfig) DebounceWindow() time.Duration {
	return time.Duration(p.DebounceWindowMs) * time.Millisecond
}

// SuspendTimeout returns the auto-expiry window for suspended monitoring.
func (p ProctoringConfig) SuspendTimeout() time.Duration {
	return time.Duration(p.SuspendTimeoutMs) * time.Millisecond
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me-in-production")

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "proctor-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Proctoring defaults
	v.SetDefault("proctoring.grace_period_ms", 3000)
	v.SetDefault("proctoring.debounce_window_ms", 500)
	v.SetDefault("proctoring.suspend_timeout_ms", 60000)
	v.SetDefault("proctoring.devtools_interval_s", 2)
	v.SetDefault("proctoring.geometry_interval_s", 2)
	v.SetDefault("proctoring.devtools_threshold_px", 160)
	v.SetDefault("proctoring.limits", map[string]int{
		"tabSwitch":    3,
		"windowBlur":   5,
		"devTools":     2,
		"fullscreen":   3,
		"windowMove":   5,
		"printScreen":  3,
		"copyPaste":    5,
		"deviceChange": 1,
	})
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("PROCTOR") // e.g., PROCTOR_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}

// ViolationLimits converts the configured limits map into typed form.
func (p ProctoringConfig) ViolationLimits() map[string]int {
	if len(p.Limits) == 0 {
		return map[string]int{}
	}
	out := make(map[string]int, len(p.Limits))
	for k, v := range p.Limits {
		out[k] = v
	}
	return out
}
