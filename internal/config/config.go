package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	JWT struct {
		Secret string
		TTL    time.Duration
	}

	Throttle struct {
		// Allowed vote attempts per minute for authenticated callers (scope "vote")
		VotePerMinute int
		// Allowed vote attempts per minute for anonymous callers (scope "anon_vote")
		AnonVotePerMinute int
	}

	Media struct {
		Enabled   bool
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "ballotline")
	config.DB.Password = getEnv("DB_PASSWORD", "ballotline_password")
	config.DB.Name = getEnv("DB_NAME", "ballotline_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	config.JWT.Secret = getEnv("JWT_SECRET", "ballotline-dev-secret")
	config.JWT.TTL = getEnvAsDuration("JWT_TTL", 24*time.Hour)

	config.Throttle.VotePerMinute = getEnvAsInt("THROTTLE_VOTE_PER_MINUTE", 10)
	config.Throttle.AnonVotePerMinute = getEnvAsInt("THROTTLE_ANON_VOTE_PER_MINUTE", 3)

	config.Media.Enabled = getEnvAsBool("MEDIA_ENABLED", false)
	config.Media.Endpoint = getEnv("MEDIA_ENDPOINT", "localhost:9000")
	config.Media.AccessKey = getEnv("MEDIA_ACCESS_KEY", "minioadmin")
	config.Media.SecretKey = getEnv("MEDIA_SECRET_KEY", "minioadmin")
	config.Media.Bucket = getEnv("MEDIA_BUCKET", "candidate-pics")
	config.Media.UseSSL = getEnvAsBool("MEDIA_USE_SSL", false)

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a Go duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
