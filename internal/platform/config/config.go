package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string

	// SystemAPIKeyHash is the bcrypt hash of the key the payroll runner presents in x-api-key.
	SystemAPIKeyHash string

	// Redis backs distributed locks and idempotency keys. Empty keeps both in-process.
	RedisURL       string
	LockExpiry     time.Duration
	IdempotencyTTL time.Duration

	RateLimit          string
	CORSAllowedOrigins []string

	// Approval policy
	FinanceDepartment    string
	HRDepartment         string
	ApproverMinRoleLevel int

	UtilizationAlertThreshold decimal.Decimal
	DefaultPageSize           int

	// Product analytics. An empty key disables it.
	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "elra-wallet")
	viper.SetDefault("SYSTEM_API_KEY_HASH", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOCK_EXPIRY", "30s")
	viper.SetDefault("IDEMPOTENCY_TTL", "24h")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("FINANCE_DEPARTMENT", "Finance & Accounting")
	viper.SetDefault("HR_DEPARTMENT", "Human Resources")
	viper.SetDefault("APPROVER_MIN_ROLE_LEVEL", 3)
	viper.SetDefault("UTILIZATION_ALERT_THRESHOLD", "80")
	viper.SetDefault("DEFAULT_PAGE_SIZE", 20)
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Using the in-memory store.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.SystemAPIKeyHash = viper.GetString("SYSTEM_API_KEY_HASH")
	if cfg.SystemAPIKeyHash == "" {
		log.Println("Warning: SYSTEM_API_KEY_HASH not set. The payroll runner cannot authenticate.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.LockExpiry = parseDuration("LOCK_EXPIRY", 30*time.Second)
	cfg.IdempotencyTTL = parseDuration("IDEMPOTENCY_TTL", 24*time.Hour)

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.FinanceDepartment = viper.GetString("FINANCE_DEPARTMENT")
	cfg.HRDepartment = viper.GetString("HR_DEPARTMENT")
	cfg.ApproverMinRoleLevel = viper.GetInt("APPROVER_MIN_ROLE_LEVEL")

	thresholdStr := viper.GetString("UTILIZATION_ALERT_THRESHOLD")
	threshold, err := decimal.NewFromString(thresholdStr)
	if err != nil || threshold.IsNegative() {
		threshold = decimal.NewFromInt(80)
		log.Printf("Warning: Invalid value for UTILIZATION_ALERT_THRESHOLD ('%s'). Defaulting to %s.\n", thresholdStr, threshold.String())
	}
	cfg.UtilizationAlertThreshold = threshold

	cfg.DefaultPageSize = viper.GetInt("DEFAULT_PAGE_SIZE")
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
