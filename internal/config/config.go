package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Auth           AuthConfig
	CORS           CORSConfig
	RateLimit      RateLimitConfig
	Processor      ProcessorConfig
	Revenue        RevenueConfig
	Payout         PayoutConfig
	Reconciliation ReconciliationConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

// AuthConfig holds the single back-office principal. PasswordHash takes
// precedence over Password when both are set.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// ProcessorConfig holds payment-processor settlement feed settings
type ProcessorConfig struct {
	BaseURL    string
	APIKey     string
	PageLimit  int
	MaxRecords int
}

// RevenueConfig holds external revenue service settings
type RevenueConfig struct {
	BaseURL string
	APIKey  string
}

// PayoutConfig holds payout computation settings
type PayoutConfig struct {
	PlatformFeeBps int // platform fee in basis points, deducted from vendor revenue
}

// ReconciliationConfig holds settlement reconciliation settings
type ReconciliationConfig struct {
	WindowDays int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "canteen-finance-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "canteen_finance")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("AUTH_USERNAME", "admin")
	viper.SetDefault("AUTH_PASSWORD", "")
	viper.SetDefault("AUTH_PASSWORD_HASH", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PROCESSOR_BASE_URL", "http://localhost:9090")
	viper.SetDefault("PROCESSOR_API_KEY", "")
	viper.SetDefault("PROCESSOR_PAGE_LIMIT", 100)
	viper.SetDefault("PROCESSOR_MAX_RECORDS", 10000)
	viper.SetDefault("REVENUE_BASE_URL", "http://localhost:9091")
	viper.SetDefault("REVENUE_API_KEY", "")
	viper.SetDefault("PAYOUT_PLATFORM_FEE_BPS", 0)
	viper.SetDefault("RECONCILIATION_WINDOW_DAYS", 7)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Auth: AuthConfig{
			Username:     viper.GetString("AUTH_USERNAME"),
			Password:     viper.GetString("AUTH_PASSWORD"),
			PasswordHash: viper.GetString("AUTH_PASSWORD_HASH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Processor: ProcessorConfig{
			BaseURL:    viper.GetString("PROCESSOR_BASE_URL"),
			APIKey:     viper.GetString("PROCESSOR_API_KEY"),
			PageLimit:  viper.GetInt("PROCESSOR_PAGE_LIMIT"),
			MaxRecords: viper.GetInt("PROCESSOR_MAX_RECORDS"),
		},
		Revenue: RevenueConfig{
			BaseURL: viper.GetString("REVENUE_BASE_URL"),
			APIKey:  viper.GetString("REVENUE_API_KEY"),
		},
		Payout: PayoutConfig{
			PlatformFeeBps: viper.GetInt("PAYOUT_PLATFORM_FEE_BPS"),
		},
		Reconciliation: ReconciliationConfig{
			WindowDays: viper.GetInt("RECONCILIATION_WINDOW_DAYS"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
