package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Engine.Hands)
	assert.Equal(t, "info", cfg.Engine.LogLevel)
	assert.Equal(t, "localhost:9000", cfg.ServerAddress())
	require.NoError(t, cfg.Validate())
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
engine {
  game_file = "games/leduc.limit.2p.game"
  seed      = 42
}

server {
  port = 7777
}

bot "caller" {
  strategy = "call"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "games/leduc.limit.2p.game", cfg.Engine.GameFile)
	assert.Equal(t, int64(42), cfg.Engine.Seed)
	assert.Equal(t, 1000, cfg.Engine.Hands)
	assert.Equal(t, "localhost:7777", cfg.ServerAddress())
	assert.Equal(t, 10000, cfg.Server.ActionTimeoutMS)
	require.Len(t, cfg.Bots, 1)
	assert.Equal(t, "caller", cfg.Bots[0].Name)
}

func TestLoadWithoutBlocks(t *testing.T) {
	path := writeConfig(t, `
bot "folder" {
  strategy = "fold"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1000, cfg.Engine.Hands)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	path := writeConfig(t, `engine { game_file = `)
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero hands", func(c *Config) { c.Engine.Hands = -1 }},
		{"empty game file", func(c *Config) { c.Engine.GameFile = "" }},
		{"bad log level", func(c *Config) { c.Engine.LogLevel = "verbose" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"zero timeout", func(c *Config) { c.Server.ActionTimeoutMS = 0 }},
		{"bad strategy", func(c *Config) {
			c.Bots = []BotConfig{{Name: "x", Strategy: "gto"}}
		}},
		{"seat collision", func(c *Config) {
			c.Bots = []BotConfig{
				{Name: "a", Strategy: "call", Seat: 1},
				{Name: "b", Strategy: "fold", Seat: 1},
			}
		}},
		{"negative seat", func(c *Config) {
			c.Bots = []BotConfig{{Name: "x", Strategy: "call", Seat: -1}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
