package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	DatabaseURL          string // optional: checkout-attempt audit trail
	RedisURL             string // optional: subscription cache
	JWTSecret            string
	PaymentAPIBaseURL    string
	StripePublishableKey string
	OneTimePriceID       string
	CheckoutSuccessURL   string
	CheckoutCancelURL    string
	LoginURL             string
	DefaultLocale        string
	GeoIPDBPath          string
	AllowedOrigins       []string
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
	GatewayTimeout       time.Duration
	RateLimitPerMin      int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		PaymentAPIBaseURL:    getEnv("PAYMENT_API_BASE_URL", "http://localhost:3001"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		OneTimePriceID:       getEnv("ONE_TIME_PRICE_ID", "price_consult_single"),
		CheckoutSuccessURL:   getEnv("CHECKOUT_SUCCESS_URL", "https://app.betterchoice.fit/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CheckoutCancelURL:    getEnv("CHECKOUT_CANCEL_URL", "https://app.betterchoice.fit/pricing"),
		LoginURL:             getEnv("LOGIN_URL", "https://app.betterchoice.fit/login"),
		DefaultLocale:        getEnv("DEFAULT_LOCALE", "he"),
		GeoIPDBPath:          os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:       getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		GatewayTimeout:       time.Second * time.Duration(getEnvInt("GATEWAY_TIMEOUT_SECONDS", 30)),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if !strings.Contains(cfg.CheckoutSuccessURL, "{CHECKOUT_SESSION_ID}") {
		return nil, fmt.Errorf("CHECKOUT_SUCCESS_URL must embed the {CHECKOUT_SESSION_ID} placeholder")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
