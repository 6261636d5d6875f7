package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env        string
	MongoURI   string
	MongoDB    string
	ServerAddr string

	FrontendOrigin string

	RateLimitAuth         int
	RateLimitAppointments int
	RateLimitComplaints   int
	RateLimitWindowSec    int

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	JWTSecret        string
	AccessTTLMinutes int

	BrevoAPIKey      string
	BrevoSenderEmail string
	BrevoSenderName  string
	BrevoSandbox     bool

	StripeSecretKey     string
	StripeWebhookSecret string
	PaymentSuccessURL   string
	PaymentCancelURL    string
	PaymentCurrency     string

	Timezone *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	loadDotEnv(".env")
	loc, err := time.LoadLocation(getEnv("TZ", "Africa/Nairobi"))
	if err != nil {
		return nil, err
	}

	frontendOrigin := getEnv("FRONTEND_ORIGIN", "http://localhost:5173")

	cfg := &Config{
		Env:        getEnv("APP_ENV", "development"),
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017/aura"),
		MongoDB:    getEnv("MONGO_DB", "aura"),
		ServerAddr: getEnv("SERVER_ADDR", ":8081"),

		FrontendOrigin: frontendOrigin,

		RateLimitAuth:         getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitAppointments: getEnvInt("RATE_LIMIT_APPOINTMENTS", 10),
		RateLimitComplaints:   getEnvInt("RATE_LIMIT_COMPLAINTS", 5),
		RateLimitWindowSec:    getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 60),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		AccessTTLMinutes: getEnvInt("ACCESS_TTL_MINUTES", 720),

		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail: getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:  getEnv("BREVO_SENDER_NAME", "Aura Health"),
		BrevoSandbox:     getEnv("BREVO_SANDBOX", "false") == "true",

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PaymentSuccessURL:   getEnv("PAYMENT_SUCCESS_URL", frontendOrigin+"/payment-success"),
		PaymentCancelURL:    getEnv("PAYMENT_CANCEL_URL", frontendOrigin+"/payment-cancel"),
		PaymentCurrency:     getEnv("PAYMENT_CURRENCY", "kes"),

		Timezone: loc,
	}

	return cfg, nil
}

func loadDotEnv(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, val)
	}
}
