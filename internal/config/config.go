package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"toolrental-backend/internal/service"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Rental    RentalConfig    `yaml:"rental"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RentalConfig contains the business parameters of the rental shop
type RentalConfig struct {
	DefaultWarehouseID    int32 `yaml:"default_warehouse_id"`
	DefaultWorkshopID     int32 `yaml:"default_workshop_id"`
	WearThreshold         int32 `yaml:"wear_threshold"`
	ReservationGraceHours int   `yaml:"reservation_grace_hours"`
	MaxBulkQuantity       int   `yaml:"max_bulk_quantity"`
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	ExpireStaleReservations string `yaml:"expire_stale_reservations"`
	ReportOverdueReturns    string `yaml:"report_overdue_returns"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	envString("JWT_SECRET", &c.JWT.Secret)

	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)

	envInt("RENTAL_WEAR_THRESHOLD", &c.Rental.WearThreshold)

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func envString(key string, dst *string) {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		*dst = val
	}
}

// envInt leaves dst untouched when the variable is not a valid integer.
func envInt[T ~int | ~int32](key string, dst *T) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
		*dst = T(n)
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 15
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Rental defaults
	defaults := service.DefaultSettings()
	if c.Rental.DefaultWarehouseID == 0 {
		c.Rental.DefaultWarehouseID = defaults.DefaultWarehouseID
	}
	if c.Rental.DefaultWorkshopID == 0 {
		c.Rental.DefaultWorkshopID = defaults.DefaultWorkshopID
	}
	if c.Rental.WearThreshold == 0 {
		c.Rental.WearThreshold = defaults.WearThreshold
	}
	if c.Rental.WearThreshold < 0 {
		return fmt.Errorf("invalid wear threshold: %d", c.Rental.WearThreshold)
	}
	if c.Rental.ReservationGraceHours == 0 {
		c.Rental.ReservationGraceHours = int(defaults.ReservationGrace / time.Hour)
	}
	if c.Rental.MaxBulkQuantity == 0 {
		c.Rental.MaxBulkQuantity = defaults.MaxBulkQuantity
	}

	// Scheduler defaults
	if c.Scheduler.ExpireStaleReservations == "" {
		c.Scheduler.ExpireStaleReservations = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.ReportOverdueReturns == "" {
		c.Scheduler.ReportOverdueReturns = "0 0 7 * * *" // 7 AM daily
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AccessTokenTTL returns the lifetime of issued access tokens
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

// ServiceSettings converts the rental section into service parameters
func (c *Config) ServiceSettings() service.Settings {
	return service.Settings{
		DefaultWarehouseID: c.Rental.DefaultWarehouseID,
		DefaultWorkshopID:  c.Rental.DefaultWorkshopID,
		WearThreshold:      c.Rental.WearThreshold,
		MaxBulkQuantity:    c.Rental.MaxBulkQuantity,
		ReservationGrace:   time.Duration(c.Rental.ReservationGraceHours) * time.Hour,
	}
}
