package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/mosaic/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, ":9090", cfg.Server.RPCAddress)
	assert.Equal(t, 4, cfg.Room.MaxPlayers)
	assert.Equal(t, 256, cfg.Room.InboxSize)
	assert.Equal(t, 10*time.Minute, cfg.Room.IdleTimeout)
	assert.Equal(t, 30*time.Second, cfg.Room.SweepInterval)
	assert.Equal(t, game.Standard, cfg.Variant())
	assert.Equal(t, 20.0, cfg.Client.RateLimit)
	assert.Equal(t, 40, cfg.Client.RateBurst)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  http_address: \":7000\"\ngame:\n  variant: gray\n  seed: 12\nroom:\n  idle_timeout: 1m\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("MOSAIC_ROOM_MAX_PLAYERS", "3")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.HTTPAddress)
	assert.Equal(t, game.GrayWall, cfg.Variant())
	assert.Equal(t, uint64(12), cfg.Game.Seed)
	assert.Equal(t, time.Minute, cfg.Room.IdleTimeout)
	assert.Equal(t, 3, cfg.Room.MaxPlayers)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("game:\n  variant: hexagonal\n"), 0o644))
	_, err := LoadConfig(dir)
	assert.Error(t, err)

	t.Setenv("MOSAIC_ROOM_MAX_PLAYERS", "6")
	_, err = LoadConfig(t.TempDir())
	assert.Error(t, err)
}
