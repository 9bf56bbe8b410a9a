package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	BaseURL     string
	LogLevel    string

	OTLPEndpoint   string
	TracingEnabled bool

	Telegram TelegramConfig
	Payment  PaymentConfig

	DBType        string
	DBPath        string
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBSSLMode     string
	DBMaxIdleConn int
	DBMaxOpenConn int
}

// TelegramConfig configures the chat front end.
type TelegramConfig struct {
	Token       string
	WebhookPath string
	AdminChatID int64
}

// PaymentConfig configures the payment provider integration.
type PaymentConfig struct {
	FormURL          string
	WebhookPath      string
	Secret           string
	EnforceSignature bool
	Amount           int64
	HandlerTimeout   time.Duration
}

// Load loads configuration from environment variables and .env file.
// An optional giftcert.yml file overlays payment settings on top.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "giftcert"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		BaseURL:     resolveBaseURL(),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		OTLPEndpoint:   getenv("OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getenvBool("TRACING_ENABLED", false),

		Telegram: TelegramConfig{
			Token:       strings.TrimSpace(getenv("BOT_TOKEN", "")),
			WebhookPath: getenv("TELEGRAM_WEBHOOK_PATH", "/telegram/webhook"),
			AdminChatID: getenvInt64("TELEGRAM_ADMIN_CHAT_ID", 0),
		},
		Payment: PaymentConfig{
			FormURL:          getenv("PAYMENT_FORM_URL", ""),
			WebhookPath:      getenv("PAYMENT_WEBHOOK_PATH", "/payment/webhook"),
			Secret:           strings.TrimSpace(getenv("PAYMENT_SECRET", "")),
			EnforceSignature: getenvBool("PAYMENT_ENFORCE_SIGNATURE", false),
			Amount:           getenvInt64("PAYMENT_AMOUNT", 2000),
			HandlerTimeout:   getenvDuration("PAYMENT_HANDLER_TIMEOUT", 30*time.Second),
		},

		DBType:        getenv("DATABASE_TYPE", "sqlite"),
		DBPath:        getenv("DATABASE_PATH", "giftcert.db"),
		DBHost:        getenv("DATABASE_HOST", "localhost"),
		DBPort:        getenv("DATABASE_PORT", "5432"),
		DBName:        getenv("DATABASE_NAME", "giftcert"),
		DBUser:        getenv("DATABASE_USER", "postgres"),
		DBPassword:    getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:     getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn: getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn: getenvInt("DATABASE_MAX_OPEN_CONN", 10),
	}

	applyFileOverlay(&cfg)

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// resolveBaseURL mirrors hosted-platform conventions: when the platform
// injects an external hostname, the public base URL derives from it.
func resolveBaseURL() string {
	if base := getenv("BASE_URL", ""); base != "" {
		return strings.TrimRight(base, "/")
	}
	if host := getenv("EXTERNAL_HOSTNAME", ""); host != "" {
		return "https://" + host
	}
	return "http://localhost:8080"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

// Module wires configuration loading for the application.
var Module = fx.Module("config",
	fx.Provide(Load),
)
