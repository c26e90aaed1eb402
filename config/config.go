package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"tourdesk/logging"
)

// Config holds application configuration
type Config struct {
	Port string `validate:"required,numeric"`

	DBDriver   string `validate:"oneof=postgres mysql sqlite"`
	DBDSN      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string `validate:"required"`

	SessionSecret string `validate:"required,min=16"`
	SaltRound     int    `validate:"min=4,max=31"`
	CookieSecure  bool
	CORSOrigins   string

	PublicDir      string `validate:"required"`
	UploadDir      string `validate:"required"`
	UploadMaxBytes int    `validate:"gt=0"`

	RecaptchaSecret string
	RecaptchaURL    string `validate:"required,url"`

	SendGridAPIKey   string
	MailFrom         string `validate:"omitempty,email"`
	ContactRecipient string `validate:"omitempty,email"`
	ContactRateMax   int    `validate:"gt=0"`

	TelegramBotToken string
	TelegramChatID   int64

	RabbitURL string

	ReviewDigestCron string `validate:"required"`

	SeedAdminName     string
	SeedAdminEmail    string `validate:"omitempty,email"`
	SeedAdminPassword string

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

const defaultSessionSecret = "change-me-please-0123456789"

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// .env is optional; real deployments pass env vars directly.
	if err := godotenv.Load(); err != nil {
		logging.Warn().Msg(".env file not found, using system environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.SessionSecret == defaultSessionSecret {
		logging.Warn().Msg("using default SESSION_SECRET, update it in your environment")
	}
	if cfg.SendGridAPIKey != "" && (cfg.MailFrom == "" || cfg.ContactRecipient == "") {
		logging.Warn().Msg("SENDGRID_API_KEY set without MAIL_FROM or CONTACT_RECIPIENT, contact emails will fail")
	}
	if cfg.RecaptchaSecret == "" {
		logging.Warn().Msg("RECAPTCHA_SECRET not set, bot verification is disabled")
	}

	AppConfig = cfg
}

// FromEnv reads the configuration without loading .env or validating it.
func FromEnv() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBDSN:      getEnv("DB_DSN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "tourdesk"),

		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		SaltRound:     getEnvInt("SALT_ROUND", 10),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),

		PublicDir:      getEnv("PUBLIC_DIR", "./public"),
		UploadDir:      getEnv("UPLOAD_DIR", "./public/uploads"),
		UploadMaxBytes: getEnvInt("UPLOAD_MAX_BYTES", 5<<20),

		RecaptchaSecret: getEnv("RECAPTCHA_SECRET", ""),
		RecaptchaURL:    getEnv("RECAPTCHA_URL", "https://www.google.com/recaptcha/api/siteverify"),

		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		MailFrom:         getEnv("MAIL_FROM", ""),
		ContactRecipient: getEnv("CONTACT_RECIPIENT", ""),
		ContactRateMax:   getEnvInt("CONTACT_RATE_MAX", 5),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   int64(getEnvInt("TELEGRAM_CHAT_ID", 0)),

		RabbitURL: getEnv("RABBITMQ_URL", ""),

		ReviewDigestCron: getEnv("REVIEW_DIGEST_CRON", "0 9 * * *"),

		SeedAdminName:     getEnv("SEED_ADMIN_NAME", "Super Admin"),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}
}

// Validate checks field constraints declared on the struct.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn().Str("key", key).Err(err).Msg("invalid integer in environment, using default")
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn().Str("key", key).Err(err).Msg("invalid boolean in environment, using default")
		return defaultValue
	}
	return b
}
