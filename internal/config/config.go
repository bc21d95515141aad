package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Environment
	Env string

	// Telegram
	BotToken    string
	WebhookMode bool
	Port        string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis session store; empty address selects the in-memory store
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	// Market data providers
	MoexBaseURL string
	CbrBaseURL  string
	HTTPTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env: getEnv("ENV", "development"),

		// Telegram
		BotToken:    getEnv("BOT_TOKEN", ""),
		WebhookMode: getEnv("WEBHOOK_MODE", "false") == "true",
		Port:        getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "moexbot"),
		DBPassword: getEnv("DB_PASSWORD", "moexbot"),
		DBName:     getEnv("DB_NAME", "moexbot"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		// Providers
		MoexBaseURL: getEnv("MOEX_BASE_URL", "https://iss.moex.com"),
		CbrBaseURL:  getEnv("CBR_BASE_URL", "https://www.cbr-xml-daily.ru"),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		log.Printf("Warning: invalid REDIS_DB value, falling back to 0\n")
		redisDB = 0
	}
	config.RedisDB = redisDB

	config.SessionTTL = getDuration("SESSION_TTL", 24*time.Hour)
	config.HTTPTimeout = getDuration("HTTP_TIMEOUT", 10*time.Second)

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration retrieves a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=" + c.DBSSLMode
}
