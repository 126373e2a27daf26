// Package config loads musik's settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/musik/logger"
	"github.com/joho/godotenv"
)

const (
	DefaultSearchURL   = "https://itunes.apple.com/search"
	DefaultPlaylistKey = "musicPlaylist"
	DefaultPlayer      = "ffplay"
	DefaultPlayerArgs  = "-nodisp -autoexit -loglevel quiet"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

type Config struct {
	// Catalog
	SearchURL    string
	HTTPTimeout  time.Duration // zero means no timeout
	RequestDelay time.Duration

	// Storage
	DataDir     string
	Storage     string
	PlaylistKey string

	// Playback
	Player     string
	PlayerArgs []string

	Log logger.Config
}

// Load reads .env (if present) from the working directory, then the
// environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	dataDir := getEnv("APP_DATA_DIR", defaultDataDir())

	config := &Config{
		SearchURL:    getEnv("ITUNES_SEARCH_URL", DefaultSearchURL),
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 0),
		RequestDelay: getEnvDuration("REQUEST_DELAY", 3*time.Second),
		DataDir:      dataDir,
		Storage:      getEnv("STORAGE_BACKEND", StorageSQLite),
		PlaylistKey:  getEnv("PLAYLIST_KEY", DefaultPlaylistKey),
		Player:       getEnv("PLAYER", DefaultPlayer),
		PlayerArgs:   strings.Fields(getEnv("PLAYER_ARGS", DefaultPlayerArgs)),
		Log: logger.Config{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "file"),
			FilePath:   getEnv("LOG_FILE_PATH", filepath.Join(dataDir, "musik.log")),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 10),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SearchURL == "" {
		return fmt.Errorf("ITUNES_SEARCH_URL is required")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("REQUEST_DELAY must not be negative")
	}
	switch c.Storage {
	case StorageSQLite, StorageFile, StorageMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of %s, %s, %s; got '%s'",
			StorageSQLite, StorageFile, StorageMemory, c.Storage)
	}
	if c.Storage != StorageMemory && c.DataDir == "" {
		return fmt.Errorf("APP_DATA_DIR is required for storage backend '%s'", c.Storage)
	}
	if c.PlaylistKey == "" {
		return fmt.Errorf("PLAYLIST_KEY is required")
	}
	if c.Player == "" {
		return fmt.Errorf("PLAYER is required")
	}
	return nil
}

// DatabasePath is where the sqlite backend keeps its file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "musik.db")
}

// StoreDir is where the file backend keeps its files.
func (c *Config) StoreDir() string {
	return filepath.Join(c.DataDir, "store")
}

// LimiterPath is where the catalog client remembers a server-requested
// backoff between runs.
func (c *Config) LimiterPath() string {
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, "next-req")
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(dir, "musik")
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
