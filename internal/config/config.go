package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret string

	// Storage
	StoragePath string

	// Background workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Email (Resend)
	ResendAPIKey string
	FromEmail    string

	// Sentry
	SentryDSN string

	// Billing policy
	InvoiceGraceDays             int
	AllowOverpayment             bool
	RenewalTerminatesPredecessor bool
	AutoGenerateInvoices         bool
	DefaultManagementFeePercent  decimal.Decimal
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                         getEnv("PORT", "8080"),
		Environment:                  getEnv("ENVIRONMENT", "development"),
		DatabaseURL:                  getEnv("DATABASE_URL", ""),
		JWTSecret:                    getEnv("JWT_SECRET", ""),
		StoragePath:                  getEnv("STORAGE_PATH", "./storage"),
		WorkerCount:                  getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:               getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		ResendAPIKey:                 getEnv("RESEND_API_KEY", ""),
		FromEmail:                    getEnv("FROM_EMAIL", "billing@estateprop.app"),
		SentryDSN:                    getEnv("SENTRY_DSN", ""),
		InvoiceGraceDays:             getEnvAsInt("INVOICE_GRACE_DAYS", 0),
		AllowOverpayment:             getEnvAsBool("ALLOW_OVERPAYMENT", false),
		RenewalTerminatesPredecessor: getEnvAsBool("RENEWAL_TERMINATES_PREDECESSOR", false),
		AutoGenerateInvoices:         getEnvAsBool("AUTO_GENERATE_INVOICES", false),
		DefaultManagementFeePercent:  getEnvAsDecimal("DEFAULT_MANAGEMENT_FEE_PERCENT", decimal.NewFromFloat(0.10)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.DefaultManagementFeePercent.IsNegative() || cfg.DefaultManagementFeePercent.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("DEFAULT_MANAGEMENT_FEE_PERCENT must be between 0 and 1")
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool reads an environment variable as boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDecimal reads an environment variable as a decimal value
func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
