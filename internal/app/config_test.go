package app

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Save original environment
	originalBackend := os.Getenv("GUILD_STORAGE_BACKEND")
	originalDataDir := os.Getenv("GUILD_DATA_DIR")
	originalDBPath := os.Getenv("GUILD_DB_PATH")
	originalStorageKey := os.Getenv("GUILD_STORAGE_KEY")
	originalEnforce := os.Getenv("GUILD_ENFORCE_VALIDATION")

	// Cleanup function
	defer func() {
		setOrUnset("GUILD_STORAGE_BACKEND", originalBackend)
		setOrUnset("GUILD_DATA_DIR", originalDataDir)
		setOrUnset("GUILD_DB_PATH", originalDBPath)
		setOrUnset("GUILD_STORAGE_KEY", originalStorageKey)
		setOrUnset("GUILD_ENFORCE_VALIDATION", originalEnforce)
	}()

	t.Run("Defaults", func(t *testing.T) {
		os.Unsetenv("GUILD_STORAGE_BACKEND")
		os.Unsetenv("GUILD_DATA_DIR")
		os.Unsetenv("GUILD_DB_PATH")
		os.Unsetenv("GUILD_STORAGE_KEY")
		os.Unsetenv("GUILD_ENFORCE_VALIDATION")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.StorageBackend != BackendFile {
			t.Errorf("Expected StorageBackend to default to %q, got %q", BackendFile, config.StorageBackend)
		}

		if config.DataDir != "data" {
			t.Errorf("Expected DataDir to default to 'data', got %q", config.DataDir)
		}

		if config.StorageKey != DefaultStorageKey {
			t.Errorf("Expected StorageKey to default to %q, got %q", DefaultStorageKey, config.StorageKey)
		}

		if config.EnforceValidation {
			t.Error("Expected EnforceValidation to default to false")
		}
	})

	t.Run("ExplicitConfiguration", func(t *testing.T) {
		os.Setenv("GUILD_STORAGE_BACKEND", "sqlite")
		os.Setenv("GUILD_DB_PATH", "test.db")
		os.Setenv("GUILD_STORAGE_KEY", "test-key")
		os.Setenv("GUILD_ENFORCE_VALIDATION", "true")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.StorageBackend != BackendSQLite {
			t.Errorf("Expected StorageBackend to be 'sqlite', got %q", config.StorageBackend)
		}

		if config.DBPath != "test.db" {
			t.Errorf("Expected DBPath to be 'test.db', got %q", config.DBPath)
		}

		if config.StorageKey != "test-key" {
			t.Errorf("Expected StorageKey to be 'test-key', got %q", config.StorageKey)
		}

		if !config.EnforceValidation {
			t.Error("Expected EnforceValidation to be true")
		}
	})

	t.Run("UnsupportedBackend", func(t *testing.T) {
		os.Setenv("GUILD_STORAGE_BACKEND", "dynamo")

		_, err := LoadConfig()

		if err == nil {
			t.Fatal("Expected an error for an unsupported backend")
		}
	})
}

func setOrUnset(key, value string) {
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
}
