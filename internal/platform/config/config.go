package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PostingAccounts maps each posting rule leg to a general ledger account
// code. The codes must resolve to existing active accounts; the journal
// service validates them at startup.
type PostingAccounts struct {
	Cash               string
	Receivables        string
	Payables           string
	TaxPayable         string
	SalesRevenue       string
	ReservationRevenue string
	TripRevenue        string
	Purchases          string
	FallbackRevenue    string
	FallbackExpense    string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Redis backs the background task queue.
	RedisAddr string

	// HomeCurrency is the reporting currency; foreign amounts are stored
	// converted with their original amount and rate kept alongside.
	HomeCurrency string

	// RateLimit is an ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string

	Posting PostingAccounts
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "accounting-backend")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("HOME_CURRENCY", "EGP")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("POSTING_CASH_ACCOUNT", "1-001")
	viper.SetDefault("POSTING_RECEIVABLES_ACCOUNT", "1-002")
	viper.SetDefault("POSTING_PAYABLES_ACCOUNT", "2-001")
	viper.SetDefault("POSTING_TAX_ACCOUNT", "2-003")
	viper.SetDefault("POSTING_SALES_ACCOUNT", "4-001")
	viper.SetDefault("POSTING_RESERVATION_REVENUE", "4-002")
	viper.SetDefault("POSTING_TRIP_REVENUE", "4-003")
	viper.SetDefault("POSTING_PURCHASES_ACCOUNT", "5-001")
	viper.SetDefault("POSTING_FALLBACK_REVENUE", "4-999")
	viper.SetDefault("POSTING_FALLBACK_EXPENSE", "5-999")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.HomeCurrency = viper.GetString("HOME_CURRENCY")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.Posting = PostingAccounts{
		Cash:               viper.GetString("POSTING_CASH_ACCOUNT"),
		Receivables:        viper.GetString("POSTING_RECEIVABLES_ACCOUNT"),
		Payables:           viper.GetString("POSTING_PAYABLES_ACCOUNT"),
		TaxPayable:         viper.GetString("POSTING_TAX_ACCOUNT"),
		SalesRevenue:       viper.GetString("POSTING_SALES_ACCOUNT"),
		ReservationRevenue: viper.GetString("POSTING_RESERVATION_REVENUE"),
		TripRevenue:        viper.GetString("POSTING_TRIP_REVENUE"),
		Purchases:          viper.GetString("POSTING_PURCHASES_ACCOUNT"),
		FallbackRevenue:    viper.GetString("POSTING_FALLBACK_REVENUE"),
		FallbackExpense:    viper.GetString("POSTING_FALLBACK_EXPENSE"),
	}

	return cfg, nil
}
