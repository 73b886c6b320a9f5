// filepath: internal/cli/root_test.go
package cli

import (
	"os"
	"testing"

	"filedrop/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// Helper to reset the global config and flags between tests
func resetGlobals() {
	cfg = nil
	port = 0
	logLevel = ""
	dbDriver = ""
	dbDSN = ""
	storageRoot = ""
	cfgFile = "config.toml" // Default
}

func TestConfigPrecedence(t *testing.T) {
	// RootCmd.Execute() starts the server, so we test initializeConfig
	// and applyFlags directly.

	t.Run("Defaults", func(t *testing.T) {
		resetGlobals()
		cfgFile = "nonexistent.toml"

		cmd := &cobra.Command{}
		err := initializeConfig(cmd)
		assert.NoError(t, err)

		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "filedrop.db", cfg.Database.DSN)
	})

	t.Run("Environment Overrides Defaults", func(t *testing.T) {
		resetGlobals()
		cfgFile = "nonexistent.toml"

		os.Setenv("FILEDROP_PORT", "9090")
		os.Setenv("FILEDROP_LOG_LEVEL", "warn")
		defer os.Unsetenv("FILEDROP_PORT")
		defer os.Unsetenv("FILEDROP_LOG_LEVEL")

		cmd := &cobra.Command{}
		err := initializeConfig(cmd)
		assert.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("Flags Override Environment", func(t *testing.T) {
		resetGlobals()
		cfgFile = "nonexistent.toml"

		os.Setenv("FILEDROP_PORT", "9090")
		defer os.Unsetenv("FILEDROP_PORT")

		port = 7070

		cmd := &cobra.Command{}
		err := initializeConfig(cmd)
		assert.NoError(t, err)

		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("Config File Loading", func(t *testing.T) {
		resetGlobals()

		content := []byte(`
[server]
port = 6060
[logging]
level = "error"
[database]
driver = "sqlite"
dsn = "from_file.db"
`)
		tmpFile := "test_config.toml"
		err := os.WriteFile(tmpFile, content, 0644)
		assert.NoError(t, err)
		defer os.Remove(tmpFile)

		cfgFile = tmpFile

		cmd := &cobra.Command{}
		err = initializeConfig(cmd)
		assert.NoError(t, err)

		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, "error", cfg.Logging.Level)
		assert.Equal(t, "from_file.db", cfg.Database.DSN)
	})
}

func TestApplyFlags(t *testing.T) {
	c := &config.Config{
		Server:  config.ServerConfig{Port: 8080},
		Logging: config.LoggingConfig{Level: "info"},
	}

	port = 9999
	logLevel = "debug"
	dbDSN = "flag.db"

	cmd := &cobra.Command{}
	applyFlags(c, cmd)

	assert.Equal(t, 9999, c.Server.Port)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "flag.db", c.Database.DSN)

	resetGlobals()
}
