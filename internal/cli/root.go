// filepath: internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filedrop/internal/api/handlers"
	"filedrop/internal/audit"
	"filedrop/internal/config"
	"filedrop/internal/httpserver"
	"filedrop/internal/logging"
	"filedrop/internal/repository"
	"filedrop/internal/services"
	"filedrop/internal/services/auth"
	"filedrop/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Version info
	Version   = "1.0.0"
	StartTime time.Time

	// Global config object populated by file/env/flags
	cfg *config.Config

	// Flags
	cfgFile       string
	password      string
	port          int
	logLevel      string
	resetPassword bool
	jwtSecret     string
	maxUploadSize string
	dbDriver      string
	dbDSN         string
	storageRoot   string
	auditEnabled  bool
)

// RootCmd represents the base command when called without any subcommands.
// It starts the HTTP server.
var RootCmd = &cobra.Command{
	Use:   "filedrop",
	Short: "FileDrop API",
	Long:  `A self-hosted service for uploading files and creating short URLs.`,
	// PersistentPreRunE loads the configuration before any command runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	StartTime = time.Now()

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config_path", "config.toml", "Path to the base configuration file. (Env: FILEDROP_CONFIG_PATH)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: FILEDROP_LOG_LEVEL)")
	RootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Database driver: sqlite or postgres. (Env: FILEDROP_DATABASE_DRIVER)")
	RootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "Database DSN: a file path for sqlite, a postgres:// URL for postgres. (Env: FILEDROP_DATABASE_DSN)")

	// Server-specific flags
	RootCmd.Flags().StringVar(&password, "password", "", "Password for the 'admin' user. (Env: FILEDROP_PASSWORD)")
	RootCmd.Flags().IntVar(&port, "port", 0, "Port for the HTTP server. (Env: FILEDROP_PORT)")
	RootCmd.Flags().BoolVar(&resetPassword, "reset_pw", false, "If true, reset admin password on startup. (Env: FILEDROP_RESET_PW=true)")
	RootCmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "Secret key for signing JWTs. (Env: FILEDROP_JWT_SECRET)")
	RootCmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "Maximum upload size (e.g. '64MB'). (Env: FILEDROP_MAX_UPLOAD_SIZE)")
	RootCmd.Flags().StringVar(&storageRoot, "storage-root", "", "Directory for stored objects. (Env: FILEDROP_STORAGE_ROOT)")
	RootCmd.Flags().BoolVar(&auditEnabled, "audit-enabled", false, "Enable detailed audit logging. (Env: FILEDROP_AUDIT_ENABLED=true)")
}

// initializeConfig loads and overrides configuration values.
// Precedence: defaults < config file < environment < flags.
func initializeConfig(cmd *cobra.Command) error {
	// A .env file is convenient in development; ignore if absent.
	_ = godotenv.Load()

	if envPath := os.Getenv("FILEDROP_CONFIG_PATH"); envPath != "" && cfgFile == "config.toml" {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file; rely on defaults, env, and flags.
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	cfg.ApplyEnv()
	applyFlags(cfg, cmd)

	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logging.Init(cfg.Logging.Level)

	return nil
}

// applyFlags lets explicitly-set CLI flags take precedence over the
// config file and environment.
func applyFlags(c *config.Config, cmd *cobra.Command) {
	if password != "" {
		c.AdminPassword = password
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("audit-enabled") {
		c.Logging.AuditEnabled = auditEnabled
	}
	if resetPassword {
		c.ResetAdminPassword = true
	}
	if jwtSecret != "" {
		c.JWTSecret = jwtSecret
	}
	if maxUploadSize != "" {
		c.Server.MaxUploadSize = maxUploadSize
	}
	if dbDriver != "" {
		c.Database.Driver = dbDriver
	}
	if dbDSN != "" {
		c.Database.DSN = dbDSN
	}
	if storageRoot != "" {
		c.Storage.Root = storageRoot
	}
}

// bootstrapDatabase creates the database if needed and brings the
// schema to the expected version. The scoped connection is always
// closed, whether the bootstrap succeeds or not.
func bootstrapDatabase(cfg *config.Config) error {
	if err := repository.EnsureDatabase(cfg); err != nil {
		return err
	}

	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.RunMigrations(context.Background())
}

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	// Handle JWT Secret
	if cfg.JWTSecret == "" {
		if cfg.JWT.Secret != "" {
			logging.Log.Info("Using JWT secret loaded from config file.")
			cfg.JWTSecret = cfg.JWT.Secret
		} else {
			logging.Log.Info("Generating new random JWT secret...")
			newSecret, err := auth.GenerateSecret()
			if err != nil {
				return fmt.Errorf("failed to generate JWT secret: %w", err)
			}
			cfg.JWT.Secret = newSecret
			cfg.JWTSecret = newSecret
			if err := config.SaveConfig(cfgFile, cfg); err != nil {
				logging.Log.Warnf("Failed to save new JWT secret to %s: %v", cfgFile, err)
			} else {
				logging.Log.Infof("New JWT secret saved to %s.", cfgFile)
			}
		}
	}

	// The server must not come up against a missing, unreachable, or
	// drifted database.
	if err := bootstrapDatabase(cfg); err != nil {
		logging.Log.Errorf("Database bootstrap failed: %v", err)
		return err
	}

	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	datasource, err := storage.NewLocal(cfg.Storage.Root)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Service Initialization
	infoService := services.NewInfoService(Version, StartTime)
	userService := services.NewUserService(repo)
	tokenService := auth.NewTokenService(cfg, userService, repo)
	fileService := services.NewFileService(repo, datasource)
	urlService := services.NewURLService(repo)
	statsService := services.NewStatsService(repo, datasource)
	sweeperService := services.NewSweeperService(fileService)

	// Auditor Initialization
	loggerAuditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled)

	authMiddleware := auth.NewMiddleware(userService, tokenService)

	if err := userService.InitializeAdminUser(cfg); err != nil {
		return fmt.Errorf("failed to handle admin user: %w", err)
	}

	sweeperService.Start()
	// No defer stop here, we stop explicitly during graceful shutdown

	h := handlers.NewHandlers(
		infoService,
		userService,
		fileService,
		urlService,
		statsService,
		tokenService,
		loggerAuditor,
		cfg,
	)

	r := httpserver.SetupRouter(h, authMiddleware)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s (Max Upload: %s)", serverAddr, cfg.Server.MaxUploadSize)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sweeperService.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
