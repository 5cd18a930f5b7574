package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              int
	UploadDirectory   string
	LogDirectory      string
	DefaultDeviceID   string
	Analyzer          string // "stub" albo "heuristic"
	StateBackend      string // "memory" albo "sqlite"
	DatabasePath      string
	StreamFPS         int
	StreamMaxFPS      int
	StreamMaxDuration time.Duration // 0 = bez limitu
	MaxUploadBytes    int64
	MissingImage404   bool
	ShutdownTimeout   time.Duration
}

// Load reads the optional .env file (ENV_FILE or ./.env) and builds the
// configuration from the environment. Variables already set in the process
// environment win over the file.
func Load() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	return &Config{
		Port:              getEnvAsInt("PORT", 5000),
		UploadDirectory:   getEnv("UPLOAD_DIR", filepath.Join(".", "uploads")),
		LogDirectory:      getEnv("LOG_DIR", filepath.Join(".", "logs")),
		DefaultDeviceID:   getEnv("DEFAULT_PI_ID", "AGROD1"),
		Analyzer:          strings.ToLower(getEnv("ANALYZER", "heuristic")),
		StateBackend:      strings.ToLower(getEnv("STATE_BACKEND", "memory")),
		DatabasePath:      getEnv("DB_PATH", filepath.Join(".", "data", "state.db")),
		StreamFPS:         getEnvAsInt("STREAM_FPS", 2),
		StreamMaxFPS:      getEnvAsInt("STREAM_MAX_FPS", 15),
		StreamMaxDuration: time.Duration(getEnvAsInt("STREAM_MAX_DURATION", 0)) * time.Second,
		MaxUploadBytes:    getEnvAsInt64("MAX_UPLOAD_MB", 16) << 20,
		MissingImage404:   getEnvAsBool("MISSING_IMAGE_404", false),
		ShutdownTimeout:   time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT", 10)) * time.Second,
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
