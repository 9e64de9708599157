package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port     string `envconfig:"PORT" default:"5173"`
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Remote backend
	API APIConfig

	// Session targets and expiry behavior
	Session SessionConfig

	// Durable credential storage
	Storage StorageConfig

	// Database configuration (postgres storage driver only)
	Database DatabaseConfig

	// OTP registration flow
	OTP OTPConfig

	// Payment checkout
	Payment PaymentConfig

	// Bot verification widget
	Turnstile TurnstileConfig

	// Toast notifications
	Notify NotifyConfig

	// CORS configuration
	CORS CORSConfig
}

// APIConfig describes the remote REST backend
type APIConfig struct {
	BaseURL     string        `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`
	Prefix      string        `envconfig:"API_PREFIX" default:"/api"`
	Timeout     time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	PublicPaths []string      `envconfig:"API_PUBLIC_PATHS" default:"/farmer-login,/customer-login,/farmer-register,/customer-register,/auth/login,/auth/register,/auth/refresh,/auth/verify-otp,/auth/resend-otp"`
}

// SessionConfig holds the view targets used by the gateway and the guard
type SessionConfig struct {
	FarmerLoginPath       string `envconfig:"SESSION_FARMER_LOGIN_PATH" default:"/farmer-login"`
	CustomerLoginPath     string `envconfig:"SESSION_CUSTOMER_LOGIN_PATH" default:"/customer-login"`
	FarmerDashboardPath   string `envconfig:"SESSION_FARMER_DASHBOARD_PATH" default:"/farmer-dashboard"`
	CustomerDashboardPath string `envconfig:"SESSION_CUSTOMER_DASHBOARD_PATH" default:"/customer-dashboard"`

	// RoleAwareExpiryRedirect sends an expired session to the login view of its
	// last known role instead of the farmer login view.
	RoleAwareExpiryRedirect bool `envconfig:"SESSION_ROLE_AWARE_REDIRECT" default:"false"`
}

// StorageConfig selects the durable key-value backend
type StorageConfig struct {
	Driver    string `envconfig:"STORAGE_DRIVER" default:"file"`
	Namespace string `envconfig:"STORAGE_NAMESPACE" default:"storefront"`
	FilePath  string `envconfig:"STORAGE_FILE_PATH" default:".storefront/storage.json"`
	FileKey   string `envconfig:"STORAGE_FILE_KEY"`
	RedisURL  string `envconfig:"REDIS_URL"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"require"`
}

// ConnectionString returns the PostgreSQL connection string
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// OTPConfig holds registration OTP settings
type OTPConfig struct {
	// Keep in sync with the backend resend cooldown
	ResendCooldown time.Duration `envconfig:"OTP_RESEND_COOLDOWN" default:"60s"`
}

// PaymentConfig holds checkout settings
type PaymentConfig struct {
	KeyOverride  string `envconfig:"RAZORPAY_KEY"`
	Currency     string `envconfig:"PAYMENT_CURRENCY" default:"INR"`
	MerchantName string `envconfig:"PAYMENT_MERCHANT_NAME" default:"eKrishiHub"`
}

// TurnstileConfig holds the public bot verification site key handed to views
type TurnstileConfig struct {
	SiteKey string `envconfig:"TURNSTILE_SITE_KEY"`
}

// NotifyConfig holds toast feed settings
type NotifyConfig struct {
	Capacity int `envconfig:"NOTIFY_CAPACITY" default:"50"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("API_BASE_URL cannot be empty")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API_TIMEOUT must be positive")
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFile:
		if strings.TrimSpace(c.Storage.FilePath) == "" {
			return errors.New("STORAGE_FILE_PATH cannot be empty for the file driver")
		}
	case StorageRedis:
		if strings.TrimSpace(c.Storage.RedisURL) == "" {
			return errors.New("REDIS_URL is required for the redis driver")
		}
	case StoragePostgres:
		if c.Database.User == "" || c.Database.Name == "" {
			return errors.New("DB_USER and DB_NAME are required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.OTP.ResendCooldown < 0 {
		return errors.New("OTP_RESEND_COOLDOWN cannot be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
