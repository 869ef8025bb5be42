package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"farmcare/arbiter"
	"farmcare/database"
)

// Config holds all configuration for the disease detection service
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPingWait time.Duration

	// Server configuration
	Port           string
	MaxUploadBytes int64

	// Vision configuration
	VisionProvider string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiAPIBase  string
	RemoteTimeout  time.Duration

	// Local model configuration
	LocalModelURL     string
	LocalModelName    string
	LocalModelTimeout time.Duration

	// Confidence thresholds
	Thresholds arbiter.Thresholds

	MaxScansPerUser int
	DefaultLanguage string

	// Auth
	JWTSecret string

	// RabbitMQ configuration
	AMQPHost           string
	AMQPPort           string
	AMQPUser           string
	AMQPPassword       string
	AMQPExchange       string
	AMQPScanRoutingKey string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "farmcare"),
		DBPassword: getEnv("DB_PASSWORD", "secret"),
		DBName:     getEnv("DB_NAME", "farmcare"),
		DBPingWait: getDurationEnv("DB_PING_MAX_WAIT", 60*time.Second),

		Port:           getEnv("PORT", "8080"),
		MaxUploadBytes: int64(getIntEnv("MAX_UPLOAD_BYTES", 10<<20)),

		VisionProvider: strings.ToLower(getEnv("VISION_PROVIDER", "gemini")),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		GeminiAPIBase:  getEnv("GEMINI_API_BASE", ""),
		RemoteTimeout:  getDurationEnv("REMOTE_TIMEOUT", 60*time.Second),

		LocalModelURL:     getEnv("LOCAL_MODEL_URL", ""),
		LocalModelName:    getEnv("LOCAL_MODEL_NAME", "plant_disease"),
		LocalModelTimeout: getDurationEnv("LOCAL_MODEL_TIMEOUT", 10*time.Second),

		Thresholds: arbiter.Thresholds{
			Local:  getFloatEnv("LOCAL_CONFIDENCE_THRESHOLD", arbiter.LocalThreshold),
			Report: getFloatEnv("REPORT_CONFIDENCE_THRESHOLD", arbiter.ReportThreshold),
			Scan:   getFloatEnv("SCAN_CONFIDENCE_THRESHOLD", arbiter.ScanThreshold),
		},

		MaxScansPerUser: getIntEnv("MAX_SCANS_PER_USER", 10),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "English"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AMQPHost:           getEnv("AMQP_HOST", ""),
		AMQPPort:           getEnv("AMQP_PORT", "5672"),
		AMQPUser:           getEnv("AMQP_USER", "guest"),
		AMQPPassword:       getEnv("AMQP_PASSWORD", "guest"),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", "farmcare"),
		AMQPScanRoutingKey: getEnv("AMQP_SCAN_ROUTING_KEY", "scan.created"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// DB returns the connection settings for the database package.
func (c *Config) DB() database.ConnConfig {
	return database.ConnConfig{
		Host:         c.DBHost,
		Port:         c.DBPort,
		User:         c.DBUser,
		Password:     c.DBPassword,
		Name:         c.DBName,
		MaxOpenConns: 25,
		MaxIdleConns: 10,
		ConnLifetime: 5 * time.Minute,
		PingMaxWait:  c.DBPingWait,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
