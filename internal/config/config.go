package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the ledger snapshot and receipt images.
const (
	StorageFile     = "file"
	StorageBolt     = "bolt"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	MaxWorkers   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Extraction model configuration
	OpenRouterAPIKey  string
	OpenRouterAPIURL  string
	OpenRouterModelID string
	OpenRouterTimeout time.Duration

	// Storage configuration
	StorageBackend string
	DataDir        string
	BoltPath       string
	DatabaseURL    string

	// Logging configuration
	LogFormat string
	LogLevel  string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		Port:         getEnvInt("PORT", 8080),
		MaxWorkers:   getEnvInt("MAX_WORKERS", 5),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 60)) * time.Second,

		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterAPIURL:  getEnvString("OPENROUTER_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
		OpenRouterModelID: getEnvString("OPENROUTER_MODEL_ID", "meta-llama/llama-3.2-11b-vision-instruct:free"),
		OpenRouterTimeout: time.Duration(getEnvInt("OPENROUTER_TIMEOUT", 60)) * time.Second,

		StorageBackend: getEnvString("STORAGE_BACKEND", StorageFile),
		DataDir:        getEnvString("DATA_DIR", "data"),
		BoltPath:       getEnvString("BOLT_PATH", "data/ledger.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),
	}

	validateConfig(config)

	return config, nil
}

// validateConfig checks critical configuration values and logs warnings
// for anything missing. Startup never fails on configuration alone.
func validateConfig(config *Config) {
	if config.OpenRouterAPIKey == "" {
		log.Println("Warning: No OpenRouter API key provided. Receipt scanning will fail.")
	}

	switch config.StorageBackend {
	case StorageFile, StorageBolt:
	case StoragePostgres:
		if config.DatabaseURL == "" {
			log.Println("Warning: STORAGE_BACKEND is postgres but DATABASE_URL is not set.")
		}
	default:
		log.Printf("Warning: Unknown STORAGE_BACKEND %q, falling back to %q.", config.StorageBackend, StorageFile)
		config.StorageBackend = StorageFile
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
