// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Logging  LoggingConfig  `toml:"logging"`
	JWT      JWTConfig      `toml:"jwt"`

	AdminPassword      string `toml:"-"` // Not loaded from file, set by CLI/env
	ResetAdminPassword bool   `toml:"-"` // Not loaded from file, set by CLI/env
	JWTSecret          string `toml:"-"` // Runtime secret (from env, flag, or file)

	MaxUploadSizeBytes   int64         `toml:"-"` // Runtime computed value
	MigrateTimeoutParsed time.Duration `toml:"-"` // Runtime computed value
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	MaxUploadSize string `toml:"max_upload_size"` // e.g. "64MB", "512KB"
}

// DatabaseConfig holds the database configuration.
//
// Driver is either "sqlite" (default, DSN is a file path) or
// "postgres" (DSN is a postgres:// URL).
type DatabaseConfig struct {
	Driver         string `toml:"driver"`
	DSN            string `toml:"dsn"`
	MigrateTimeout string `toml:"migrate_timeout"` // e.g. "60s"
}

// StorageConfig holds the object storage configuration.
type StorageConfig struct {
	Root string `toml:"root"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// JWTConfig holds settings for token generation.
type JWTConfig struct {
	AccessDurationMin    int    `toml:"access_duration_min"`
	RefreshDurationHours int    `toml:"refresh_duration_hours"`
	Secret               string `toml:"secret"` // Persisted secret
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
// Used to persist the auto-generated JWT secret.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file for saving: %w", err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}

// ApplyEnv overrides configuration values from FILEDROP_* environment
// variables. All reads of the process environment are confined here;
// the rest of the application only sees the Config value.
func (c *Config) ApplyEnv() {
	getEnv := func(key string) string { return os.Getenv(key) }

	if v := getEnv("FILEDROP_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getEnv("FILEDROP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getEnv("FILEDROP_MAX_UPLOAD_SIZE"); v != "" {
		c.Server.MaxUploadSize = v
	}
	if v := getEnv("FILEDROP_DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := getEnv("FILEDROP_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := getEnv("FILEDROP_STORAGE_ROOT"); v != "" {
		c.Storage.Root = v
	}
	if v := getEnv("FILEDROP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getEnv("FILEDROP_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.AuditEnabled = b
		}
	}
	if v := getEnv("FILEDROP_PASSWORD"); v != "" {
		c.AdminPassword = v
	}
	if v := getEnv("FILEDROP_RESET_PW"); v == "true" {
		c.ResetAdminPassword = true
	}
	if v := getEnv("FILEDROP_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
}

// ParseAndValidate processes configuration strings into runtime values.
// It sets defaults if values are missing and parses human-readable sizes.
func (c *Config) ParseAndValidate() error {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		if c.Database.Driver == "sqlite" {
			c.Database.DSN = "filedrop.db"
		} else {
			return fmt.Errorf("database dsn is required for driver %s", c.Database.Driver)
		}
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "uploads"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.JWT.AccessDurationMin == 0 {
		c.JWT.AccessDurationMin = 15
	}
	if c.JWT.RefreshDurationHours == 0 {
		c.JWT.RefreshDurationHours = 24
	}

	if c.Server.MaxUploadSize == "" {
		c.Server.MaxUploadSize = "64MB"
	}
	sizeBytes, err := parseSize(c.Server.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	c.MaxUploadSizeBytes = sizeBytes

	if c.Database.MigrateTimeout == "" {
		c.Database.MigrateTimeout = "60s"
	}
	timeout, err := time.ParseDuration(c.Database.MigrateTimeout)
	if err != nil {
		return fmt.Errorf("invalid migrate_timeout: %w", err)
	}
	c.MigrateTimeoutParsed = timeout

	return nil
}

// parseSize parses a size string (e.g., "100G", "500MB") into bytes.
func parseSize(sizeStr string) (int64, error) {
	re := regexp.MustCompile(`(?i)^(\d+)\s*(K|M|G|T)?B?$`)
	matches := re.FindStringSubmatch(strings.TrimSpace(sizeStr))

	if len(matches) < 2 {
		return 0, fmt.Errorf("invalid size format: %s", sizeStr)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size number: %s", matches[1])
	}

	unit := ""
	if len(matches) > 2 {
		unit = strings.ToUpper(matches[2])
	}

	switch unit {
	case "K":
		value *= 1 << 10
	case "M":
		value *= 1 << 20
	case "G":
		value *= 1 << 30
	case "T":
		value *= 1 << 40
	}
	return value, nil
}
