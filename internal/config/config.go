package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port           string
	RequestTimeout time.Duration
	// Storage
	Storage     string
	DatabaseURL string
	SQLitePath  string
	// gRPC
	GRPCAddr string
	// Rate limiting (per tenant, fixed window of one minute)
	RateLimitBackend string
	RateLimitPerMin  int
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:              getEnv("ENV", "local"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Port:             getEnv("PORT", "8080"),
		RequestTimeout:   time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "3000"), 3000)) * time.Millisecond,
		Storage:          getEnv("STORAGE", "pg"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "bookings.db"),
		GRPCAddr:         getEnv("GRPC_ADDR", ":9090"),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "none"),
		RateLimitPerMin:  atoiDef(getEnv("RATE_LIMIT_PER_MIN", "120"), 120),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          atoiDef(getEnv("REDIS_DB", "0"), 0),
	}
}
