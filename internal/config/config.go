// Package config loads engine configuration from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete configuration for the dealer engine. The engine
// and server blocks are optional; missing blocks take their defaults.
type Config struct {
	Engine *EngineSettings `hcl:"engine,block"`
	Server *ServerSettings `hcl:"server,block"`
	Bots   []BotConfig     `hcl:"bot,block"`
}

// EngineSettings controls the match being played.
type EngineSettings struct {
	GameFile string `hcl:"game_file,optional"`
	Hands    int    `hcl:"hands,optional"`
	Seed     int64  `hcl:"seed,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// ServerSettings controls the websocket dealer endpoint.
type ServerSettings struct {
	Address         string `hcl:"address,optional"`
	Port            int    `hcl:"port,optional"`
	ActionTimeoutMS int    `hcl:"action_timeout_ms,optional"`
}

// BotConfig assigns a built-in strategy to a seat for offline matches.
// Seats are 1-based like the firstPlayer field in game files; zero assigns
// seats in declaration order.
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
	Seat     int    `hcl:"seat,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Engine: &EngineSettings{
			GameFile: "games/holdem.nolimit.3p.game",
			Hands:    1000,
			LogLevel: "info",
		},
		Server: &ServerSettings{
			Address:         "localhost",
			Port:            9000,
			ActionTimeoutMS: 10000,
		},
	}
}

// Load reads configuration from an HCL file, falling back to defaults when
// the file does not exist. Missing optional values take their defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	def := DefaultConfig()
	if config.Engine == nil {
		config.Engine = &EngineSettings{}
	}
	if config.Server == nil {
		config.Server = &ServerSettings{}
	}
	if config.Engine.GameFile == "" {
		config.Engine.GameFile = def.Engine.GameFile
	}
	if config.Engine.Hands == 0 {
		config.Engine.Hands = def.Engine.Hands
	}
	if config.Engine.LogLevel == "" {
		config.Engine.LogLevel = def.Engine.LogLevel
	}
	if config.Server.Address == "" {
		config.Server.Address = def.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = def.Server.Port
	}
	if config.Server.ActionTimeoutMS == 0 {
		config.Server.ActionTimeoutMS = def.Server.ActionTimeoutMS
	}
	for i := range config.Bots {
		if config.Bots[i].Strategy == "" {
			config.Bots[i].Strategy = "call"
		}
	}

	return &config, nil
}

// ValidStrategies lists the built-in bot strategies.
var ValidStrategies = map[string]bool{
	"call": true,
	"rand": true,
	"fold": true,
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.GameFile == "" {
		return fmt.Errorf("engine: game_file must be set")
	}
	if c.Engine.Hands <= 0 {
		return fmt.Errorf("engine: hands must be positive, got %d", c.Engine.Hands)
	}
	switch c.Engine.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("engine: invalid log_level %q", c.Engine.LogLevel)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port %d", c.Server.Port)
	}
	if c.Server.ActionTimeoutMS <= 0 {
		return fmt.Errorf("server: action_timeout_ms must be positive")
	}

	// Seat 0 means "assign in declaration order", so only explicit seats
	// can collide.
	seats := make(map[int]string)
	for _, bot := range c.Bots {
		if !ValidStrategies[bot.Strategy] {
			return fmt.Errorf("bot %s: invalid strategy %q", bot.Name, bot.Strategy)
		}
		if bot.Seat < 0 {
			return fmt.Errorf("bot %s: seat must not be negative", bot.Name)
		}
		if bot.Seat > 0 {
			if other, taken := seats[bot.Seat]; taken {
				return fmt.Errorf("bot %s: seat %d already taken by %s", bot.Name, bot.Seat, other)
			}
			seats[bot.Seat] = bot.Name
		}
	}

	return nil
}

// ServerAddress returns the host:port the dealer listens on.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
