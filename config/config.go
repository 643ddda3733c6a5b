package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LIFEQUEST_STORAGE_DRIVER.
const EnvPrefix = "LIFEQUEST"

// Config holds all configuration for the application
type Config struct {
	// Character store configuration
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Game configuration
	Game GameConfig `json:"game" mapstructure:"game"`

	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Log file configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// StorageConfig holds character store configuration
type StorageConfig struct {
	// Store backend (json, sqlite)
	Driver string `json:"driver" mapstructure:"driver"`

	// Save file for json, database file for sqlite
	Path string `json:"path" mapstructure:"path"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Character ids that may play
	Roster []string `json:"roster" mapstructure:"roster"`

	// Roles whose sessions may edit other characters
	Admins []string `json:"admins" mapstructure:"admins"`

	// Template used for roles without one of their own
	DefaultRole string `json:"default_role" mapstructure:"default_role"`

	// Optional YAML file replacing the built-in role templates
	TemplatesPath string `json:"templates_path" mapstructure:"templates_path"`

	// Health and max health of a new character
	StartingHealth int `json:"starting_health" mapstructure:"starting_health"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" mapstructure:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" mapstructure:"log_level"`

	// Base URL encoded into session pairing QR codes
	PublicURL string `json:"public_url" mapstructure:"public_url"`

	// Directory holding session records
	SessionDir string `json:"session_dir" mapstructure:"session_dir"`
}

// LoggingConfig holds rotating log file configuration
type LoggingConfig struct {
	FileEnabled bool   `json:"file_enabled" mapstructure:"file_enabled"`
	FilePath    string `json:"file_path" mapstructure:"file_path"`
	MaxSizeMB   int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups  int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays  int    `json:"max_age_days" mapstructure:"max_age_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver: "json",
			Path:   "./data/save_data.json",
		},
		Game: GameConfig{
			Roster:         []string{"dad", "mom", "daughter", "son"},
			Admins:         []string{"dad", "mom"},
			DefaultRole:    "dad",
			TemplatesPath:  "",
			StartingHealth: 100,
		},
		Server: ServerConfig{
			Port:       "8080",
			LogLevel:   "info",
			PublicURL:  "http://localhost:8080",
			SessionDir: "./data/sessions",
		},
		Logging: LoggingConfig{
			FileEnabled: false,
			FilePath:    "./logs/lifequest.log",
			MaxSizeMB:   10,
			MaxBackups:  5,
			MaxAgeDays:  30,
		},
	}
}

// setDefaults registers every key so environment overrides apply even when
// the file omits them.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.path", cfg.Storage.Path)

	v.SetDefault("game.roster", cfg.Game.Roster)
	v.SetDefault("game.admins", cfg.Game.Admins)
	v.SetDefault("game.default_role", cfg.Game.DefaultRole)
	v.SetDefault("game.templates_path", cfg.Game.TemplatesPath)
	v.SetDefault("game.starting_health", cfg.Game.StartingHealth)

	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.log_level", cfg.Server.LogLevel)
	v.SetDefault("server.public_url", cfg.Server.PublicURL)
	v.SetDefault("server.session_dir", cfg.Server.SessionDir)

	v.SetDefault("logging.file_enabled", cfg.Logging.FileEnabled)
	v.SetDefault("logging.file_path", cfg.Logging.FilePath)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", cfg.Logging.MaxAgeDays)
}

// LoadConfig loads configuration from a file, creating it with defaults when
// missing, and applies LIFEQUEST_* environment overrides.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create default config file if it doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
	}

	v := viper.New()
	setDefaults(v, config)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	return config, config.Validate()
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if len(c.Game.Roster) == 0 {
		return fmt.Errorf("game roster is empty")
	}
	if c.Game.StartingHealth < 1 {
		return fmt.Errorf("starting health must be at least 1")
	}
	return nil
}

// IsAdmin reports whether role is configured with the admin capability.
func (c Config) IsAdmin(role string) bool {
	for _, admin := range c.Game.Admins {
		if admin == role {
			return true
		}
	}
	return false
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
