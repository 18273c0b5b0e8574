package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all environment-driven settings. Carrier and LLM credentials
// are injected at deploy time and are never committed.
type Config struct {
	AppEnv   string
	HTTPAddr string

	DBDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	// PublicBaseURL is where this service is reachable; the function
	// endpoints default to being self-hosted under it.
	PublicBaseURL string

	// ChatFunctionURL is the chat-llm function invoked by the chat screen.
	ChatFunctionURL string
	// LLMAPIURL is the upstream LLM API the chat-llm function forwards to.
	LLMAPIURL string
	// CallFunctionURL is the initiate-call function invoked by the call screen.
	CallFunctionURL string
	// TwilioFunctionURL is the twilio-call function the initiate-call
	// function forwards to.
	TwilioFunctionURL string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	TwilioWebhookURL string
	DefaultToNumber  string

	TelegramToken  string
	TelegramChatID int64

	CleanupCron string
	HTTPTimeout time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoi(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func atoi64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Load reads the configuration from the environment. Every value has a
// development default except the credentials, which stay empty until injected.
func Load() Config {
	base := getenv("PUBLIC_BASE_URL", "http://localhost:8080")

	return Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		DBDSN: getenv("DB_DSN", "host=localhost user=user password=password dbname=fairviodb port=5432 sslmode=disable"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       atoi("REDIS_DB", 0),

		JWTSecret: getenv("JWT_SECRET", "dev-only-secret"),

		PublicBaseURL:     base,
		ChatFunctionURL:   getenv("CHAT_FUNCTION_URL", base+"/functions/chat-llm"),
		LLMAPIURL:         getenv("LLM_API_URL", "http://localhost:5000/api/chat"),
		CallFunctionURL:   getenv("CALL_FUNCTION_URL", base+"/functions/initiate-call"),
		TwilioFunctionURL: getenv("TWILIO_FUNCTION_URL", base+"/functions/twilio-call"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		TwilioWebhookURL: os.Getenv("TWILIO_WEBHOOK_URL"),
		DefaultToNumber:  os.Getenv("DEFAULT_TO_NUMBER"),

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: atoi64("TELEGRAM_STAFF_CHAT_ID", 0),

		CleanupCron: getenv("CLEANUP_CRON", "@hourly"),
		HTTPTimeout: dur("HTTP_TIMEOUT", 30*time.Second),
	}
}
