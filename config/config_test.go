package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		SearchURL:    DefaultSearchURL,
		RequestDelay: time.Second,
		DataDir:      "/tmp/musik",
		Storage:      StorageSQLite,
		PlaylistKey:  DefaultPlaylistKey,
		Player:       DefaultPlayer,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "memory storage needs no data dir", mutate: func(c *Config) { c.Storage = StorageMemory; c.DataDir = "" }},
		{name: "missing search url", mutate: func(c *Config) { c.SearchURL = "" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTPTimeout = -time.Second }, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.RequestDelay = -time.Second }, wantErr: true},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage = "s3" }, wantErr: true},
		{name: "file storage without data dir", mutate: func(c *Config) { c.Storage = StorageFile; c.DataDir = "" }, wantErr: true},
		{name: "missing playlist key", mutate: func(c *Config) { c.PlaylistKey = "" }, wantErr: true},
		{name: "missing player", mutate: func(c *Config) { c.Player = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("APP_DATA_DIR", dir)
	t.Setenv("STORAGE_BACKEND", StorageFile)
	t.Setenv("REQUEST_DELAY", "250ms")
	t.Setenv("HTTP_TIMEOUT", "not a duration")
	t.Setenv("PLAYER_ARGS", "--no-video  --really-quiet")
	t.Setenv("LOG_MAX_SIZE", "5")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSearchURL, config.SearchURL)
	assert.Equal(t, 250*time.Millisecond, config.RequestDelay)
	assert.Equal(t, time.Duration(0), config.HTTPTimeout)
	assert.Equal(t, StorageFile, config.Storage)
	assert.Equal(t, DefaultPlaylistKey, config.PlaylistKey)
	assert.Equal(t, []string{"--no-video", "--really-quiet"}, config.PlayerArgs)
	assert.Equal(t, 5, config.Log.MaxSize)
	assert.Equal(t, filepath.Join(dir, "musik.log"), config.Log.FilePath)
	assert.Equal(t, filepath.Join(dir, "store"), config.StoreDir())
	assert.Equal(t, filepath.Join(dir, "musik.db"), config.DatabasePath())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLAYLIST_KEY=fromDotEnv\nAPP_DATA_DIR="+dir+"\n"), 0o644))
	for _, key := range []string{"PLAYLIST_KEY", "APP_DATA_DIR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromDotEnv", config.PlaylistKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "floppy")
	_, err := Load()
	assert.Error(t, err)
}
