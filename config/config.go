package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Hosted Postgres tiers cap concurrent connections; the orchestrator
	// sizes its chunks so it never exceeds this.
	MaxConnections int
	BatchSize      int
	MaxRetries     int

	GeminiAPIKey  string
	GeminiModel   string
	RequestPause  int // pause after this many localities (0 disables pacing)
	CooldownSec   int
	GenTimeoutSec int

	DataDir string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "evcharge"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "evcharge123"),
		PostgresDB:       getEnv("POSTGRES_DB", "evcharge_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConnections: getEnvInt("MAX_CONNECTIONS", 17),
		BatchSize:      getEnvInt("BATCH_SIZE", 10),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RequestPause:  getEnvInt("REQUEST_PAUSE_EVERY", 50),
		CooldownSec:   getEnvInt("REQUEST_COOLDOWN_SEC", 60),
		GenTimeoutSec: getEnvInt("GEN_TIMEOUT_SEC", 45),

		DataDir: getEnv("DATA_DIR", "./data"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
