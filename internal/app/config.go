package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Storage backend identifiers accepted by GUILD_STORAGE_BACKEND
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultStorageKey is the envelope key the store reads and writes under.
const DefaultStorageKey = "guild-war-data"

// Config holds application configuration
type Config struct {
	StorageBackend    string
	DataDir           string
	DBPath            string
	StorageKey        string
	EnforceValidation bool
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	backend := strings.ToLower(os.Getenv("GUILD_STORAGE_BACKEND"))
	if backend == "" {
		backend = BackendFile
	}
	if backend != BackendFile && backend != BackendSQLite {
		return nil, fmt.Errorf("unsupported GUILD_STORAGE_BACKEND %q (expected %q or %q)", backend, BackendFile, BackendSQLite)
	}

	dataDir := os.Getenv("GUILD_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	dbPath := os.Getenv("GUILD_DB_PATH")
	if dbPath == "" {
		dbPath = "guild_war_stats.db"
	}

	storageKey := os.Getenv("GUILD_STORAGE_KEY")
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}

	enforce := strings.ToLower(os.Getenv("GUILD_ENFORCE_VALIDATION")) == "true"

	return &Config{
		StorageBackend:    backend,
		DataDir:           dataDir,
		DBPath:            dbPath,
		StorageKey:        storageKey,
		EnforceValidation: enforce,
	}, nil
}

// GetRequiredEnv gets an environment variable or panics if not found
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Str("key", key).Msg("Required environment variable not set")
	}
	return value
}
