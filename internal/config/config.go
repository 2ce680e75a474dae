package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Bootstrap BootstrapConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port       string
	Env        string
	CORSOrigin string
	BodyLimit  int64 // max JSON body size in bytes
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	FallbackMemory bool // fall back to an in-memory store when unreachable
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration. Redis backs the idempotency cache
// and is optional; an empty URL disables it.
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds signed-token configuration. An empty Secret makes the
// process generate one at startup, invalidating previously issued tokens.
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// SessionConfig holds session credential configuration.
type SessionConfig struct {
	TTL           time.Duration
	StrictBinding bool // require issuance ip/user-agent to match on validation
}

// RateLimitConfig holds fixed-window limits per sensitive action.
type RateLimitConfig struct {
	RegisterMax    int
	RegisterWindow time.Duration
	LoginMax       int
	LoginWindow    time.Duration
	PaymentMax     int
	PaymentWindow  time.Duration
}

// BootstrapConfig holds the staff account seeded when falling back to the
// in-memory store.
type BootstrapConfig struct {
	StaffEmail    string
	StaffPassword string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       getEnv("SERVER_PORT", "8080"),
			Env:        getEnv("SERVER_ENV", "development"),
			CORSOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
			BodyLimit:  int64(getEnvAsInt("JSON_BODY_LIMIT", 1<<20)),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvAsInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "payportal"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			FallbackMemory: getEnvAsBool("DB_FALLBACK_MEMORY", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: getEnvAsDuration("JWT_EXPIRY", time.Hour),
		},
		Session: SessionConfig{
			TTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			StrictBinding: getEnvAsBool("SESSION_STRICT_BINDING", false),
		},
		RateLimit: RateLimitConfig{
			RegisterMax:    getEnvAsInt("RATE_LIMIT_REGISTER_MAX", 3),
			RegisterWindow: getEnvAsDuration("RATE_LIMIT_REGISTER_WINDOW", 5*time.Minute),
			LoginMax:       getEnvAsInt("RATE_LIMIT_LOGIN_MAX", 5),
			LoginWindow:    getEnvAsDuration("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute),
			PaymentMax:     getEnvAsInt("RATE_LIMIT_PAYMENT_MAX", 10),
			PaymentWindow:  getEnvAsDuration("RATE_LIMIT_PAYMENT_WINDOW", time.Hour),
		},
		Bootstrap: BootstrapConfig{
			StaffEmail:    getEnv("BOOTSTRAP_STAFF_EMAIL", "admin@payportal.local"),
			StaffPassword: getEnv("BOOTSTRAP_STAFF_PASSWORD", "ChangeMe123!"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
