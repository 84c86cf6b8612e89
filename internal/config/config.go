package config

import (
	"os"
	"strconv"
	"time"

	"quinta/internal/cache"
	"quinta/internal/database"
	"quinta/internal/external"
	"quinta/internal/mail"
	"quinta/internal/messaging"
	"quinta/internal/search"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// FrontendURL is the base for payment and password-reset links in
	// outbound emails.
	FrontendURL string

	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	Database database.Config
	NATS     messaging.Config
	Stripe   external.StripeConfig
	Mail     mail.Config
	Cache    cache.Config
	Search   search.Config
}

// Load reads configuration from the environment. A .env file is honored
// when present, real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:     time.Duration(getEnvInt("JWT_TTL_HOURS", 24*30)) * time.Hour,
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "quinta"),
			Password:           getEnv("DB_PASSWORD", "quinta123"),
			DBName:             getEnv("DB_NAME", "quinta"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "quinta"),
			ClientID:  getEnv("NATS_CLIENT_ID", "quinta-api"),
		},

		Stripe: external.StripeConfig{
			BaseURL:    getEnv("STRIPE_API_URL", "https://api.stripe.com"),
			SecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
			Currency:   getEnv("STRIPE_CURRENCY", "usd"),
			Timeout:    time.Duration(getEnvInt("STRIPE_TIMEOUT_SEC", 15)) * time.Second,
			MaxRetries: getEnvInt("STRIPE_MAX_RETRIES", 3),
		},

		Mail: mail.Config{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "reservas@quintadoypua.com"),
		},

		Cache: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("VALKEY_TTL_SEC", 60)) * time.Second,
		},

		Search: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "rooms"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
