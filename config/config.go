package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port           int
	DefaultCSVPath string
	Language       string
	LogLevel       string

	MaxUploadMB int
	SessionTTL  time.Duration
	MaxSessions int

	PlaceholderSeed int64
	PlaceholderRows int
	MapSampleSize   int
	SmallCityTons   float64

	DateInvalidMax    float64
	NumericInvalidMax float64
	BelowRangeMax     float64
	AboveRangeMax     float64

	ChromeBin       string
	SnapshotTimeout time.Duration
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:           getEnvInt("PORT", 8080),
		DefaultCSVPath: getEnv("DEFAULT_CSV_PATH", "data/drake_flights.csv"),
		Language:       strings.ToLower(getEnv("LANGUAGE", "de")),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),

		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 20),
		SessionTTL:  getEnvDuration("SESSION_TTL", 30*time.Minute),
		MaxSessions: getEnvInt("MAX_SESSIONS", 100),

		PlaceholderSeed: int64(getEnvInt("PLACEHOLDER_SEED", 42)),
		PlaceholderRows: getEnvInt("PLACEHOLDER_ROWS", 800),
		MapSampleSize:   getEnvInt("MAP_SAMPLE_SIZE", 300),
		SmallCityTons:   getEnvFloat("SMALL_CITY_T_PER_YEAR", 50000),

		DateInvalidMax:    getEnvFloat("VALIDATION_DATE_INVALID_MAX", 0.2),
		NumericInvalidMax: getEnvFloat("VALIDATION_NUMERIC_INVALID_MAX", 0.3),
		BelowRangeMax:     getEnvFloat("VALIDATION_BELOW_RANGE_MAX", 0.1),
		AboveRangeMax:     getEnvFloat("VALIDATION_ABOVE_RANGE_MAX", 0.05),

		ChromeBin:       getEnv("CHROME_BIN", ""),
		SnapshotTimeout: getEnvDuration("SNAPSHOT_TIMEOUT", 60*time.Second),
	}
}

// Addr returns the host:port string the HTTP server listens on.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// MaxUploadBytes is the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
		log.Printf("[config] invalid %s=%q, using %d", key, val, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
		log.Printf("[config] invalid %s=%q, using %g", key, val, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
		log.Printf("[config] invalid %s=%q, using %v", key, val, fallback)
	}
	return fallback
}
