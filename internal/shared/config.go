// ============================================================================
// internal/shared/config.go
// Configuration management and environment variable helpers
// ============================================================================

package shared

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================================
// Configuration Structs
// ============================================================================

// Config holds the full configuration for the API process.
type Config struct {
	AppName     string
	HTTPPort    string
	Environment string // development, staging, production

	MongoDB  MongoConfig
	Security SecurityConfig
	Risk     RiskConfig
	Mail     MailConfig
	CORS     CORSConfig
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	JWTSecret          string
	JWTExpirationHours int
	BCryptCost         int // BCrypt hashing cost (10-12 recommended)
	OTPTTL             time.Duration
}

// Backlog counting policies for the academic history aggregator. The
// original system keeps only the latest semester's backlog count in
// currentBacklogs; cumulative counts unresolved backlogs across the whole
// history instead.
const (
	BacklogPolicyLatest     = "latest"
	BacklogPolicyCumulative = "cumulative"
)

// RiskConfig holds policy knobs for the risk engine.
type RiskConfig struct {
	BacklogPolicy string // latest or cumulative
}

// MailConfig holds OTP mail delivery configuration.
type MailConfig struct {
	Backend     string // sendgrid or console
	SendGridKey string
	FromEmail   string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

// ============================================================================
// Configuration Loading
// ============================================================================

// LoadEnv loads environment variables from a .env file
func LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("Warning: %s file not found, using system environment variables", envFile)
		return err
	}

	log.Printf("Successfully loaded environment from %s", envFile)
	return nil
}

// LoadConfig loads the API configuration from environment
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppName:     GetEnv("APP_NAME", "Shiksha Setu"),
		HTTPPort:    GetEnv("HTTP_PORT", "8080"),
		Environment: GetEnv("ENVIRONMENT", "development"),
	}

	mongoURI := GetEnv("MONGO_URI", "")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}

	cfg.MongoDB = MongoConfig{
		URI:            mongoURI,
		Database:       GetEnv("MONGO_DB_NAME", "ShikshaSetu"),
		ConnectTimeout: GetDurationEnv("MONGO_CONNECT_TIMEOUT", 20*time.Second),
		MaxPoolSize:    uint64(GetIntEnv("MONGO_MAX_POOL_SIZE", 50)),
		MinPoolSize:    uint64(GetIntEnv("MONGO_MIN_POOL_SIZE", 10)),
		MaxIdleTime:    GetDurationEnv("MONGO_MAX_IDLE_TIME", 30*time.Second),
	}

	cfg.Security = SecurityConfig{
		JWTSecret:          GetEnv("JWT_SECRET", ""),
		JWTExpirationHours: GetIntEnv("JWT_EXPIRATION_HOURS", 168), // 7 days
		BCryptCost:         GetIntEnv("BCRYPT_COST", 10),
		OTPTTL:             GetDurationEnv("OTP_TTL", 10*time.Minute),
	}
	if cfg.Security.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg.Risk = RiskConfig{
		BacklogPolicy: GetEnv("BACKLOG_POLICY", BacklogPolicyLatest),
	}
	if err := ValidateBacklogPolicy(cfg.Risk.BacklogPolicy); err != nil {
		return nil, err
	}

	cfg.Mail = MailConfig{
		Backend:     GetEnv("MAIL_BACKEND", "console"),
		SendGridKey: GetEnv("SENDGRID_API_KEY", ""),
		FromEmail:   GetEnv("MAIL_FROM", "no-reply@shikshasetu.local"),
	}
	if cfg.Mail.Backend == "sendgrid" && cfg.Mail.SendGridKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is required when MAIL_BACKEND=sendgrid")
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins:   GetStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods:   GetStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
		AllowedHeaders:   GetStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
		AllowCredentials: GetBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		MaxAge:           GetIntEnv("CORS_MAX_AGE", 300),
	}

	return cfg, nil
}

// ValidateBacklogPolicy checks that a backlog policy is a known value.
func ValidateBacklogPolicy(policy string) error {
	if policy != BacklogPolicyLatest && policy != BacklogPolicyCumulative {
		return fmt.Errorf("invalid BACKLOG_POLICY %q: must be %q or %q",
			policy, BacklogPolicyLatest, BacklogPolicyCumulative)
	}
	return nil
}

// ============================================================================
// Environment Variable Helper Functions
// ============================================================================

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv retrieves an integer environment variable or returns a default value
func GetIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetBoolEnv retrieves a boolean environment variable or returns a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetDurationEnv retrieves a duration environment variable or returns a default value
// Supports format like "30s", "5m", "1h"
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s: %s, using default: %v", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetStringSliceEnv retrieves a comma-separated string list or returns a default value
func GetStringSliceEnv(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

// ============================================================================
// Environment Checks
// ============================================================================

// IsDevelopment checks if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PrintConfig prints configuration (sanitized) for debugging
func PrintConfig(cfg *Config) {
	log.Println("=== Configuration ===")
	log.Printf("App Name: %s", cfg.AppName)
	log.Printf("HTTP Port: %s", cfg.HTTPPort)
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Mongo Database: %s", cfg.MongoDB.Database)
	log.Printf("JWT Expiration: %d hours", cfg.Security.JWTExpirationHours)
	log.Printf("BCrypt Cost: %d", cfg.Security.BCryptCost)
	log.Printf("OTP TTL: %v", cfg.Security.OTPTTL)
	log.Printf("Backlog Policy: %s", cfg.Risk.BacklogPolicy)
	log.Printf("Mail Backend: %s", cfg.Mail.Backend)
	log.Printf("Allowed Origins: %v", cfg.CORS.AllowedOrigins)
	log.Println("=====================")
}
